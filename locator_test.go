package pydoll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yie1d/pydoll-sub004/protocol"
)

func TestChooseStrategyNative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []FindOption
		by       By
		selector string
	}{
		{"id", []FindOption{FindByID("b")}, ByID, "b"},
		{"class", []FindOption{FindByClass("late")}, ByClassName, "late"},
		{"name", []FindOption{FindByName("q")}, ByName, "q"},
		{"tag", []FindOption{FindByTag("button")}, ByTag, "button"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			by, selector, err := chooseStrategy(applyFindOptions(tt.opts))
			require.NoError(t, err)
			assert.Equal(t, tt.by, by)
			assert.Equal(t, tt.selector, selector)
		})
	}
}

func TestChooseStrategyCombinedCriteriaBuildsXPath(t *testing.T) {
	t.Parallel()

	// A tag plus an arbitrary attribute must compile to XPath, not CSS.
	by, selector, err := chooseStrategy(applyFindOptions([]FindOption{
		FindByTag("input"),
		FindByAttr("type", "password"),
	}))
	require.NoError(t, err)
	assert.Equal(t, ByXPath, by)
	assert.Equal(t, `//input[@type="password"]`, selector)
}

func TestChooseStrategyNoCriteria(t *testing.T) {
	t.Parallel()

	_, _, err := chooseStrategy(applyFindOptions(nil))
	require.ErrorIs(t, err, ErrInvalidSelector)
}

func TestBuildXPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []FindOption
		want string
	}{
		{
			"id and class",
			[]FindOption{FindByID("main"), FindByClass("active")},
			`//*[@id="main"][contains(concat(" ", normalize-space(@class), " "), " active ")]`,
		},
		{
			"tag with text exact match",
			[]FindOption{FindByTag("button"), FindByText("OK")},
			`//button[normalize-space(.)="OK"]`,
		},
		{
			"multiple attributes sorted",
			[]FindOption{FindByTag("a"), FindByAttr("rel", "nofollow"), FindByAttr("href", "/x")},
			`//a[@href="/x"][@rel="nofollow"]`,
		},
		{
			"name plus attr",
			[]FindOption{FindByName("q"), FindByAttr("type", "search")},
			`//*[@name="q"][@type="search"]`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, buildXPath(applyFindOptions(tt.opts)))
		})
	}
}

func TestXPathLiteral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"plain"`, xpathLiteral("plain"))
	assert.Equal(t, `'say "hi"'`, xpathLiteral(`say "hi"`))
	assert.Equal(t, `"it's"`, xpathLiteral("it's"))
	assert.Equal(t, `concat("it's ", '"', "quoted", '"')`, xpathLiteral(`it's "quoted"`))
}

func TestClassifyExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr     string
		by       By
		selector string
	}{
		{"//div[@id='x']", ByXPath, "//div[@id='x']"},
		{"./span", ByXPath, "./span"},
		{"#submit", ByID, "submit"},
		{".btn-primary", ByClassName, "btn-primary"},
		{"#not a simple id", ByCSS, "#not a simple id"},
		{"div > p.note", ByCSS, "div > p.note"},
		{"input[type=text]", ByCSS, "input[type=text]"},
	}
	for _, tt := range tests {
		by, selector := classifyExpression(tt.expr)
		assert.Equal(t, tt.by, by, tt.expr)
		assert.Equal(t, tt.selector, selector, tt.expr)
	}
}

func TestCSSSelectorFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#b", cssSelectorFor(ByID, "b"))
	assert.Equal(t, ".late", cssSelectorFor(ByClassName, "late"))
	assert.Equal(t, `[name="q"]`, cssSelectorFor(ByName, "q"))
	assert.Equal(t, "button", cssSelectorFor(ByTag, "button"))
	assert.Equal(t, "div > p", cssSelectorFor(ByCSS, "div > p"))
}

// nullResult is what Runtime.evaluate returns for a selector miss.
var nullResult = map[string]any{
	"result": map[string]any{"type": "object", "subtype": "null"},
}

func TestLocatorZeroTimeoutAttemptsOnce(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		s.respond(msg.ID, nullResult)
	})
	conn := NewConnection(srv.url)
	defer conn.Close()

	l := &locator{conn: conn}
	start := time.Now()
	_, err := l.Find(context.Background(), FindByID("missing"))
	require.ErrorIs(t, err, ErrElementNotFound)
	// No polling sleeps with a zero timeout.
	assert.Less(t, time.Since(start), findPollInterval)
	assert.Equal(t, 1, srv.countFrames("querySelector"))
}

func TestLocatorRelaxedMiss(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		s.respond(msg.ID, nullResult)
	})
	conn := NewConnection(srv.url)
	defer conn.Close()

	l := &locator{conn: conn}
	el, err := l.Find(context.Background(), FindByID("missing"), FindRelaxed())
	require.NoError(t, err)
	assert.Nil(t, el)

	els, err := l.FindAll(context.Background(), FindByTag("li"), FindRelaxed())
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestLocatorTimeoutPollsUntilFound(t *testing.T) {
	t.Parallel()

	attempts := 0
	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		if msg.Method != "Runtime.evaluate" {
			s.respond(msg.ID, map[string]any{
				"result": map[string]any{"type": "object", "value": []string{"class", "late", "tag_name", "div"}},
			})
			return
		}
		attempts++
		if attempts < 2 {
			s.respond(msg.ID, nullResult)
			return
		}
		s.respond(msg.ID, map[string]any{
			"result": map[string]any{"type": "object", "subtype": "node", "objectId": "obj-1"},
		})
	})
	conn := NewConnection(srv.url)
	defer conn.Close()

	l := &locator{conn: conn}
	el, err := l.Find(context.Background(), FindByClass("late"), FindTimeout(5*time.Second))
	require.NoError(t, err)
	require.NotNil(t, el)
	assert.Equal(t, "late", el.ClassName())
	assert.Equal(t, "div", el.TagName())
}

func TestLocatorWaitTimeout(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		s.respond(msg.ID, nullResult)
	})
	conn := NewConnection(srv.url)
	defer conn.Close()

	l := &locator{conn: conn}
	_, err := l.Find(context.Background(), FindByID("never"), FindTimeout(600*time.Millisecond))
	require.ErrorIs(t, err, ErrWaitElementTimeout)
}

func TestLocatorQueryFindsElement(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		switch msg.Method {
		case "Runtime.evaluate":
			s.respond(msg.ID, map[string]any{
				"result": map[string]any{"type": "object", "subtype": "node", "objectId": "obj-7"},
			})
		case "Runtime.callFunctionOn":
			s.respond(msg.ID, map[string]any{
				"result": map[string]any{"type": "object", "value": []string{"id", "b", "tag_name", "button"}},
			})
		default:
			s.respond(msg.ID, map[string]any{})
		}
	})
	conn := NewConnection(srv.url)
	defer conn.Close()

	l := &locator{conn: conn}
	el, err := l.Query(context.Background(), "#b")
	require.NoError(t, err)
	assert.Equal(t, "b", el.ID())
	assert.Equal(t, "button", el.TagName())
	assert.Equal(t, "obj-7", el.ObjectID())
}
