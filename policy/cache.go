package policy

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the number of compiled rules a Compiler keeps
const DefaultCacheSize = 128

// Compiler compiles rules and keeps the most recently used ones
type Compiler struct {
	size  int
	order *list.List
	items map[string]*list.Element
	mu    sync.Mutex
}

type cached struct {
	expr string
	rule *Rule
}

// NewCompiler creates a Compiler caching up to size rules.
// A size below one uses DefaultCacheSize.
func NewCompiler(size int) *Compiler {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Compiler{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// Compile returns the cached rule for expression, compiling it on a miss.
// Failed compilations are not cached.
func (c *Compiler) Compile(expression string) (*Rule, error) {
	if rule, ok := c.get(expression); ok {
		return rule, nil
	}

	rule, err := CompileRule(expression)
	if err != nil {
		return nil, err
	}

	c.put(expression, rule)
	return rule, nil
}

// Len returns the number of cached rules
func (c *Compiler) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Reset drops every cached rule
func (c *Compiler) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *Compiler) get(expression string) (*Rule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[expression]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(node)
	return node.Value.(*cached).rule, true
}

func (c *Compiler) put(expression string, rule *Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[expression]; ok {
		c.order.MoveToFront(node)
		node.Value.(*cached).rule = rule
		return
	}

	c.items[expression] = c.order.PushFront(&cached{expr: expression, rule: rule})

	if c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cached).expr)
	}
}
