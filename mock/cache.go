package mock

import (
	"github.com/fwojciec/refdoc"
)

var _ refdoc.GenerationCache = (*GenerationCache)(nil)

// GenerationCache is a mock implementation of refdoc.GenerationCache.
type GenerationCache struct {
	GetFn func(prompt, model string) (string, bool)
	PutFn func(prompt, model, text string) error
}

func (c *GenerationCache) Get(prompt, model string) (string, bool) {
	return c.GetFn(prompt, model)
}

func (c *GenerationCache) Put(prompt, model, text string) error {
	return c.PutFn(prompt, model, text)
}
