package bus

import (
	"fmt"
	"sync"
)

// TestingConsumer records consumed messages for assertions in tests
type TestingConsumer struct {
	mu       sync.Mutex
	messages []Message
}

func NewTestingConsumer() (c *TestingConsumer) {
	c = &TestingConsumer{}
	return
}

func (c *TestingConsumer) ConsumeMessage(message Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func (c *TestingConsumer) GetMessages() (res []Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res = append(res, c.messages...)
	return
}

// ExpectMessagesFn returns poll func which fails while consumed messages
// are not equal to expected
func (c *TestingConsumer) ExpectMessagesFn(expect ...Message) (fn func() error) {
	fn = func() (err error) {
		messages := c.GetMessages()
		if len(messages) != len(expect) {
			err = fmt.Errorf("consumed %d of %d: %v", len(messages), len(expect), messages)
			return
		}
		for i, message := range messages {
			if !message.IsEqual(expect[i]) {
				err = fmt.Errorf("message %d not equal: (expected)%s != (actual)%s", i, expect[i], message)
				return
			}
		}
		return
	}
	return
}

// ExpectLastMessageFn returns poll func which fails while the last
// consumed message is not equal to expected
func (c *TestingConsumer) ExpectLastMessageFn(expect Message) (fn func() error) {
	fn = func() (err error) {
		messages := c.GetMessages()
		if len(messages) == 0 {
			err = fmt.Errorf("no messages consumed")
			return
		}
		last := messages[len(messages)-1]
		if !last.IsEqual(expect) {
			err = fmt.Errorf("last message not equal: (expected)%s != (actual)%s", expect, last)
		}
		return
	}
	return
}
