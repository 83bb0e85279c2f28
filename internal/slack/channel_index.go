package slack

import (
	"strings"
	"sync"

	"github.com/slack-go/slack"
)

type channelIndex struct {
	mu    sync.RWMutex
	names map[string]slack.Channel
}

// newIndex initializes an empty channelIndex
func newIndex() *channelIndex {
	return &channelIndex{
		names: make(map[string]slack.Channel),
	}
}

// Add indexes the given channels by normalized name
func (ix *channelIndex) Add(channels []slack.Channel) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, ch := range channels {
		name := ch.NameNormalized
		if name == "" {
			name = ch.Name
		}
		ix.names[strings.ToLower(name)] = ch
	}
}

// GetByName looks a channel up by case-insensitive name
func (ix *channelIndex) GetByName(name string) (slack.Channel, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ch, ok := ix.names[strings.ToLower(name)]
	return ch, ok
}

// Size returns the number of channels in the index
func (ix *channelIndex) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.names)
}
