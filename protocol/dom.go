package protocol

// BoxModel is the result shape of DOM.getBoxModel. Quads are 8-element
// [x1,y1,...,x4,y4] outlines.
type BoxModel struct {
	Content []float64 `json:"content"`
	Padding []float64 `json:"padding"`
	Border  []float64 `json:"border"`
	Margin  []float64 `json:"margin"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
}

// GetBoxModelResult is the result shape of DOM.getBoxModel.
type GetBoxModelResult struct {
	Model BoxModel `json:"model"`
}

// GetDocumentResult is the result shape of DOM.getDocument.
type GetDocumentResult struct {
	Root struct {
		NodeID        int64  `json:"nodeId"`
		BackendNodeID int64  `json:"backendNodeId"`
		NodeName      string `json:"nodeName"`
	} `json:"root"`
}

// GetOuterHTMLResult is the result shape of DOM.getOuterHTML.
type GetOuterHTMLResult struct {
	OuterHTML string `json:"outerHTML"`
}

// GetAttributesResult is the result shape of DOM.getAttributes: an
// interleaved [name1, value1, name2, value2, ...] list.
type GetAttributesResult struct {
	Attributes []string `json:"attributes"`
}

// DescribeNodeResult is the result shape of DOM.describeNode.
type DescribeNodeResult struct {
	Node struct {
		NodeID        int64    `json:"nodeId"`
		BackendNodeID int64    `json:"backendNodeId"`
		NodeName      string   `json:"nodeName"`
		Attributes    []string `json:"attributes,omitempty"`
	} `json:"node"`
}

type nodeSelectorParams struct {
	NodeID   int64  `json:"nodeId,omitempty"`
	ObjectID string `json:"objectId,omitempty"`
}

type setFileInputFilesParams struct {
	Files    []string `json:"files"`
	ObjectID string   `json:"objectId,omitempty"`
	NodeID   int64    `json:"nodeId,omitempty"`
}

type scrollIntoViewParams struct {
	ObjectID string `json:"objectId,omitempty"`
	NodeID   int64  `json:"nodeId,omitempty"`
}

// DOMEnable builds DOM.enable.
func DOMEnable() *Command {
	return newCommand("DOM.enable", nil)
}

// DOMDisable builds DOM.disable.
func DOMDisable() *Command {
	return newCommand("DOM.disable", nil)
}

// DOMGetDocument builds DOM.getDocument.
func DOMGetDocument() *Command {
	return newCommand("DOM.getDocument", map[string]any{"depth": 0})
}

// DOMGetOuterHTML builds DOM.getOuterHTML for a node id.
func DOMGetOuterHTML(nodeID int64) *Command {
	return newCommand("DOM.getOuterHTML", nodeSelectorParams{NodeID: nodeID})
}

// DOMGetOuterHTMLByObjectID builds DOM.getOuterHTML for a remote object.
func DOMGetOuterHTMLByObjectID(objectID string) *Command {
	return newCommand("DOM.getOuterHTML", nodeSelectorParams{ObjectID: objectID})
}

// DOMGetBoxModel builds DOM.getBoxModel for a remote object.
func DOMGetBoxModel(objectID string) *Command {
	return newCommand("DOM.getBoxModel", nodeSelectorParams{ObjectID: objectID})
}

// DOMDescribeNode builds DOM.describeNode for a remote object.
func DOMDescribeNode(objectID string) *Command {
	return newCommand("DOM.describeNode", nodeSelectorParams{ObjectID: objectID})
}

// DOMRequestNode builds DOM.requestNode, resolving a remote object into a
// node id usable with node-scoped DOM commands.
func DOMRequestNode(objectID string) *Command {
	return newCommand("DOM.requestNode", nodeSelectorParams{ObjectID: objectID})
}

// DOMSetFileInputFiles builds DOM.setFileInputFiles against a remote
// object referencing an <input type="file"> element.
func DOMSetFileInputFiles(objectID string, files []string) *Command {
	return newCommand("DOM.setFileInputFiles", setFileInputFilesParams{
		Files:    files,
		ObjectID: objectID,
	})
}

// DOMScrollIntoViewIfNeeded builds DOM.scrollIntoViewIfNeeded.
func DOMScrollIntoViewIfNeeded(objectID string) *Command {
	return newCommand("DOM.scrollIntoViewIfNeeded", scrollIntoViewParams{ObjectID: objectID})
}
