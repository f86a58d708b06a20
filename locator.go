package pydoll

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// By is an element location strategy.
type By string

// Location strategies.
const (
	ByID        By = "id"
	ByClassName By = "class_name"
	ByName      By = "name"
	ByTag       By = "tag_name"
	ByCSS       By = "css"
	ByXPath     By = "xpath"
)

// findPollInterval is how often a timed Find/Query retries.
const findPollInterval = 500 * time.Millisecond

// FindOptions collects the criteria of a Find call. Exactly one native
// criterion (ID, ClassName, Name, TagName) with nothing else selects the
// corresponding native strategy; any combination is compiled to XPath.
type FindOptions struct {
	ID        string
	ClassName string
	Name      string
	TagName   string
	Text      string
	Attrs     map[string]string

	Timeout time.Duration
	Relaxed bool
}

// FindOption configures a Find call.
type FindOption func(*FindOptions)

// FindByID matches on the id attribute.
func FindByID(id string) FindOption {
	return func(o *FindOptions) { o.ID = id }
}

// FindByClass matches elements carrying the given class.
func FindByClass(class string) FindOption {
	return func(o *FindOptions) { o.ClassName = class }
}

// FindByName matches on the name attribute.
func FindByName(name string) FindOption {
	return func(o *FindOptions) { o.Name = name }
}

// FindByTag matches on the tag name.
func FindByTag(tag string) FindOption {
	return func(o *FindOptions) { o.TagName = tag }
}

// FindByText matches elements whose normalized text content equals text
// exactly. For substring semantics use Query with an XPath like
// //*[contains(text(), "...")].
func FindByText(text string) FindOption {
	return func(o *FindOptions) { o.Text = text }
}

// FindByAttr matches on an arbitrary attribute.
func FindByAttr(name, value string) FindOption {
	return func(o *FindOptions) {
		if o.Attrs == nil {
			o.Attrs = make(map[string]string)
		}
		o.Attrs[name] = value
	}
}

// FindTimeout polls for the element until d elapses. Zero attempts
// exactly once and never sleeps.
func FindTimeout(d time.Duration) FindOption {
	return func(o *FindOptions) { o.Timeout = d }
}

// FindRelaxed returns a nil element (or empty list) on a miss instead of
// an error.
func FindRelaxed() FindOption {
	return func(o *FindOptions) { o.Relaxed = true }
}

// locator implements attribute-based Find and expression-based Query. It
// is embedded by Tab (document scope) and WebElement (element scope); an
// element scope carries the objectID so XPath expressions are made
// relative and selector lookups run on the element.
type locator struct {
	conn     *Connection
	objectID string
}

// Find locates the first element matching the given criteria.
func (l *locator) Find(ctx context.Context, opts ...FindOption) (*WebElement, error) {
	o := applyFindOptions(opts)
	by, selector, err := chooseStrategy(o)
	if err != nil {
		return nil, err
	}
	els, err := l.locate(ctx, by, selector, false, o)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// FindAll locates every element matching the given criteria.
func (l *locator) FindAll(ctx context.Context, opts ...FindOption) ([]*WebElement, error) {
	o := applyFindOptions(opts)
	by, selector, err := chooseStrategy(o)
	if err != nil {
		return nil, err
	}
	return l.locate(ctx, by, selector, true, o)
}

// Query locates the first element matching a raw expression. The flavor
// is detected: // or ./ prefixes are XPath, # plus an identifier is an id
// shorthand, . plus an identifier is a class shorthand, anything else is
// a CSS selector.
func (l *locator) Query(ctx context.Context, expression string, opts ...FindOption) (*WebElement, error) {
	o := applyFindOptions(opts)
	by, selector := classifyExpression(expression)
	els, err := l.locate(ctx, by, selector, false, o)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// QueryAll locates every element matching a raw expression.
func (l *locator) QueryAll(ctx context.Context, expression string, opts ...FindOption) ([]*WebElement, error) {
	o := applyFindOptions(opts)
	by, selector := classifyExpression(expression)
	return l.locate(ctx, by, selector, true, o)
}

func applyFindOptions(opts []FindOption) *FindOptions {
	o := new(FindOptions)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// chooseStrategy picks the native strategy when exactly one native
// criterion is present and nothing else, and compiles to XPath otherwise.
func chooseStrategy(o *FindOptions) (By, string, error) {
	type crit struct {
		by    By
		value string
	}
	var native []crit
	if o.ID != "" {
		native = append(native, crit{ByID, o.ID})
	}
	if o.ClassName != "" {
		native = append(native, crit{ByClassName, o.ClassName})
	}
	if o.Name != "" {
		native = append(native, crit{ByName, o.Name})
	}
	if o.TagName != "" {
		native = append(native, crit{ByTag, o.TagName})
	}

	if len(native) == 0 && o.Text == "" && len(o.Attrs) == 0 {
		return "", "", fmt.Errorf("%w: no criteria given", ErrInvalidSelector)
	}
	if len(native) == 1 && o.Text == "" && len(o.Attrs) == 0 {
		return native[0].by, native[0].value, nil
	}
	return ByXPath, buildXPath(o), nil
}

// buildXPath compiles the combined criteria into an XPath expression.
func buildXPath(o *FindOptions) string {
	var sb strings.Builder
	if o.TagName != "" {
		sb.WriteString("//" + o.TagName)
	} else {
		sb.WriteString("//*")
	}
	if o.ID != "" {
		fmt.Fprintf(&sb, "[@id=%s]", xpathLiteral(o.ID))
	}
	if o.ClassName != "" {
		fmt.Fprintf(&sb, `[contains(concat(" ", normalize-space(@class), " "), %s)]`,
			xpathLiteral(" "+o.ClassName+" "))
	}
	if o.Name != "" {
		fmt.Fprintf(&sb, "[@name=%s]", xpathLiteral(o.Name))
	}
	names := make([]string, 0, len(o.Attrs))
	for k := range o.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&sb, "[@%s=%s]", k, xpathLiteral(o.Attrs[k]))
	}
	if o.Text != "" {
		fmt.Fprintf(&sb, "[normalize-space(.)=%s]", xpathLiteral(o.Text))
	}
	return sb.String()
}

// xpathLiteral quotes s as an XPath string literal, falling back to
// concat() when it contains both quote kinds.
func xpathLiteral(s string) string {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	default:
		parts := strings.Split(s, `"`)
		quoted := make([]string, 0, len(parts)*2)
		for i, p := range parts {
			if i > 0 {
				quoted = append(quoted, `'"'`)
			}
			if p != "" {
				quoted = append(quoted, `"`+p+`"`)
			}
		}
		return "concat(" + strings.Join(quoted, ", ") + ")"
	}
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// classifyExpression detects the flavor of a Query expression.
func classifyExpression(expr string) (By, string) {
	switch {
	case strings.HasPrefix(expr, "//") || strings.HasPrefix(expr, "./") || strings.HasPrefix(expr, "(//"):
		return ByXPath, expr
	case strings.HasPrefix(expr, "#") && identifierRE.MatchString(expr[1:]):
		return ByID, expr[1:]
	case strings.HasPrefix(expr, ".") && identifierRE.MatchString(expr[1:]):
		return ByClassName, expr[1:]
	default:
		return ByCSS, expr
	}
}

// cssSelectorFor maps a native strategy onto the CSS selector used with
// querySelector.
func cssSelectorFor(by By, selector string) string {
	switch by {
	case ByID:
		return "#" + selector
	case ByClassName:
		return "." + selector
	case ByName:
		return fmt.Sprintf(`[name=%s]`, jsString(selector))
	case ByTag:
		return selector
	default:
		return selector
	}
}

// jsString encodes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// locate resolves the strategy to element handles, polling when a timeout
// was requested. With a timeout of zero it attempts exactly once.
func (l *locator) locate(ctx context.Context, by By, selector string, all bool, o *FindOptions) ([]*WebElement, error) {
	deadline := time.Now().Add(o.Timeout)
	for {
		els, err := l.resolve(ctx, by, selector, all)
		if err != nil {
			return nil, err
		}
		if len(els) > 0 {
			return els, nil
		}

		if o.Timeout <= 0 {
			if o.Relaxed {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s %q", ErrElementNotFound, by, selector)
		}
		if time.Now().After(deadline) {
			if o.Relaxed {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s %q", ErrWaitElementTimeout, by, selector)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(findPollInterval):
		}
	}
}

// resolve performs one lookup round and materializes the results into
// WebElements.
func (l *locator) resolve(ctx context.Context, by By, selector string, all bool) ([]*WebElement, error) {
	obj, err := l.evaluateStrategy(ctx, by, selector, all)
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.ObjectID == "" || obj.Subtype == "null" {
		return nil, nil
	}

	var objectIDs []string
	if all {
		objectIDs, err = l.arrayElementIDs(ctx, obj.ObjectID)
		if err != nil {
			return nil, err
		}
	} else {
		objectIDs = []string{obj.ObjectID}
	}

	els := make([]*WebElement, 0, len(objectIDs))
	for _, id := range objectIDs {
		attrs, err := l.fetchAttributes(ctx, id)
		if err != nil {
			return nil, err
		}
		els = append(els, newWebElement(l.conn, id, by, selector, attrs))
	}
	return els, nil
}

// evaluateStrategy issues the CDP call pattern for the strategy: a
// querySelector evaluation for CSS-family strategies, a document.evaluate
// for XPath. Element-scoped locators run on the element via
// callFunctionOn, with XPath made relative.
func (l *locator) evaluateStrategy(ctx context.Context, by By, selector string, all bool) (*protocol.RemoteObject, error) {
	var cmd *protocol.Command
	if by == ByXPath {
		expr := selector
		if l.objectID != "" {
			// Prefix with . so the expression is relative to the element.
			if strings.HasPrefix(expr, "//") {
				expr = "." + expr
			}
			decl := xpathSingleFn
			if all {
				decl = xpathAllFn
			}
			cmd = protocol.RuntimeCallFunctionOn(l.objectID, decl, false,
				protocol.CallArgument{Value: expr})
		} else {
			js := xpathSingleExpr(expr)
			if all {
				js = xpathAllExpr(expr)
			}
			cmd = protocol.RuntimeEvaluate(js, false)
		}
	} else {
		css := cssSelectorFor(by, selector)
		if l.objectID != "" {
			decl := querySelectorFn
			if all {
				decl = querySelectorAllFn
			}
			cmd = protocol.RuntimeCallFunctionOn(l.objectID, decl, false,
				protocol.CallArgument{Value: css})
		} else {
			js := fmt.Sprintf("document.querySelector(%s)", jsString(css))
			if all {
				js = fmt.Sprintf("Array.from(document.querySelectorAll(%s))", jsString(css))
			}
			cmd = protocol.RuntimeEvaluate(js, false)
		}
	}

	msg, err := l.conn.ExecuteCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	var res protocol.EvaluateResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	if res.ExceptionDetails != nil {
		text := exceptionText(res.ExceptionDetails)
		if strings.Contains(text, "SyntaxError") || strings.Contains(text, "not a valid") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSelector, text)
		}
		return nil, fmt.Errorf("locate: %s", text)
	}
	return &res.Result, nil
}

// arrayElementIDs enumerates a result array's element object ids via
// Runtime.getProperties, in index order.
func (l *locator) arrayElementIDs(ctx context.Context, arrayObjectID string) ([]string, error) {
	msg, err := l.conn.ExecuteCommand(ctx, protocol.RuntimeGetProperties(arrayObjectID))
	if err != nil {
		return nil, err
	}
	var res protocol.GetPropertiesResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	type indexed struct {
		idx int
		id  string
	}
	var items []indexed
	for _, p := range res.Result {
		var idx int
		if _, err := fmt.Sscanf(p.Name, "%d", &idx); err != nil {
			continue
		}
		if p.Value == nil || p.Value.ObjectID == "" {
			continue
		}
		items = append(items, indexed{idx, p.Value.ObjectID})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].idx < items[j].idx })
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}

// fetchAttributes reads the element's attributes as a flat
// [name1, value1, ...] list, with the tag name appended so the element
// handle can answer TagName without another round trip.
func (l *locator) fetchAttributes(ctx context.Context, objectID string) ([]string, error) {
	msg, err := l.conn.ExecuteCommand(ctx, protocol.RuntimeCallFunctionOn(objectID, attributesFn, true))
	if err != nil {
		return nil, err
	}
	var res protocol.EvaluateResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	var attrs []string
	if res.Result.Value != nil {
		if err := json.Unmarshal(res.Result.Value, &attrs); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

// JavaScript snippets for strategy execution.
const (
	querySelectorFn    = `function(s) { return this.querySelector(s); }`
	querySelectorAllFn = `function(s) { return Array.from(this.querySelectorAll(s)); }`

	xpathSingleFn = `function(e) {
		return document.evaluate(e, this, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	}`
	xpathAllFn = `function(e) {
		const r = document.evaluate(e, this, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < r.snapshotLength; i++) out.push(r.snapshotItem(i));
		return out;
	}`

	attributesFn = `function() {
		const a = [];
		for (const at of this.attributes) { a.push(at.name, at.value); }
		a.push("tag_name", this.tagName.toLowerCase());
		return a;
	}`
)

func xpathSingleExpr(expr string) string {
	return fmt.Sprintf(
		"document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
		jsString(expr))
}

func xpathAllExpr(expr string) string {
	return fmt.Sprintf(`(() => {
		const r = document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < r.snapshotLength; i++) out.push(r.snapshotItem(i));
		return out;
	})()`, jsString(expr))
}
