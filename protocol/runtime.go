package protocol

import "encoding/json"

// RemoteObject is a handle to (or value of) a JavaScript object living in a
// target's runtime. ObjectID is only meaningful on the connection that
// produced it.
type RemoteObject struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype,omitempty"`
	ClassName   string          `json:"className,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Description string          `json:"description,omitempty"`
	ObjectID    string          `json:"objectId,omitempty"`
}

// ExceptionDetails describes a thrown JavaScript exception.
type ExceptionDetails struct {
	ExceptionID  int64         `json:"exceptionId"`
	Text         string        `json:"text"`
	LineNumber   int64         `json:"lineNumber"`
	ColumnNumber int64         `json:"columnNumber"`
	Exception    *RemoteObject `json:"exception,omitempty"`
}

// EvaluateResult is the result shape of Runtime.evaluate and
// Runtime.callFunctionOn.
type EvaluateResult struct {
	Result           RemoteObject      `json:"result"`
	ExceptionDetails *ExceptionDetails `json:"exceptionDetails,omitempty"`
}

// PropertyDescriptor is one property from Runtime.getProperties.
type PropertyDescriptor struct {
	Name       string        `json:"name"`
	Value      *RemoteObject `json:"value,omitempty"`
	Enumerable bool          `json:"enumerable"`
	Own        bool          `json:"isOwn,omitempty"`
}

// GetPropertiesResult is the result shape of Runtime.getProperties.
type GetPropertiesResult struct {
	Result []PropertyDescriptor `json:"result"`
}

type evaluateParams struct {
	Expression    string `json:"expression"`
	ReturnByValue bool   `json:"returnByValue,omitempty"`
	AwaitPromise  bool   `json:"awaitPromise,omitempty"`
	UserGesture   bool   `json:"userGesture,omitempty"`
}

type callFunctionOnParams struct {
	FunctionDeclaration string        `json:"functionDeclaration"`
	ObjectID            string        `json:"objectId,omitempty"`
	Arguments           []CallArgument `json:"arguments,omitempty"`
	ReturnByValue       bool          `json:"returnByValue,omitempty"`
	AwaitPromise        bool          `json:"awaitPromise,omitempty"`
}

// CallArgument is a single argument for Runtime.callFunctionOn.
type CallArgument struct {
	Value    any    `json:"value,omitempty"`
	ObjectID string `json:"objectId,omitempty"`
}

type getPropertiesParams struct {
	ObjectID               string `json:"objectId"`
	OwnProperties          bool   `json:"ownProperties,omitempty"`
	AccessorPropertiesOnly bool   `json:"accessorPropertiesOnly,omitempty"`
}

type releaseObjectParams struct {
	ObjectID string `json:"objectId"`
}

// RuntimeEnable builds Runtime.enable.
func RuntimeEnable() *Command {
	return newCommand("Runtime.enable", nil)
}

// RuntimeDisable builds Runtime.disable.
func RuntimeDisable() *Command {
	return newCommand("Runtime.disable", nil)
}

// RuntimeEvaluate builds Runtime.evaluate for the given expression.
func RuntimeEvaluate(expression string, returnByValue bool) *Command {
	return newCommand("Runtime.evaluate", evaluateParams{
		Expression:    expression,
		ReturnByValue: returnByValue,
		AwaitPromise:  true,
	})
}

// RuntimeCallFunctionOn builds Runtime.callFunctionOn with the given
// function declaration bound to objectID.
func RuntimeCallFunctionOn(objectID, functionDeclaration string, returnByValue bool, args ...CallArgument) *Command {
	return newCommand("Runtime.callFunctionOn", callFunctionOnParams{
		FunctionDeclaration: functionDeclaration,
		ObjectID:            objectID,
		Arguments:           args,
		ReturnByValue:       returnByValue,
		AwaitPromise:        true,
	})
}

// RuntimeGetProperties builds Runtime.getProperties over the object's own
// properties.
func RuntimeGetProperties(objectID string) *Command {
	return newCommand("Runtime.getProperties", getPropertiesParams{
		ObjectID:      objectID,
		OwnProperties: true,
	})
}

// RuntimeReleaseObject builds Runtime.releaseObject.
func RuntimeReleaseObject(objectID string) *Command {
	return newCommand("Runtime.releaseObject", releaseObjectParams{ObjectID: objectID})
}
