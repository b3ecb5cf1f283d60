package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	t.Run("channel is always present", func(t *testing.T) {
		p := NewPayload(New(), "#general")
		assert.Equal(t, "#general", p.Channel)

		p = NewPayload(New().SetText("hello"), "#alerts")
		assert.Equal(t, "#alerts", p.Channel)
	})

	t.Run("text and attachments carried over unchanged", func(t *testing.T) {
		attachments := []*Attachment{
			NewAttachment().SetTitle("one").SetColor("good"),
			NewAttachment().SetTitle("two"),
		}
		msg := New().SetText("hello").SetAttachments(attachments)

		p := NewPayload(msg, "#general")

		assert.Equal(t, msg.Text, p.Text)
		assert.Equal(t, msg.Attachments, p.Attachments)
	})

	t.Run("mapping is deterministic and leaves the message untouched", func(t *testing.T) {
		msg := New().SetText("hello").AddAttachment(NewAttachment().SetTitle("a"))

		first := NewPayload(msg, "#general")
		second := NewPayload(msg, "#general")

		assert.Equal(t, first, second)
		assert.Equal(t, "hello", msg.Text)
		assert.Len(t, msg.Attachments, 1)
	})

	t.Run("nil attachment list becomes an empty array", func(t *testing.T) {
		p := NewPayload(&Message{Text: "hi"}, "#general")

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"text":"hi","channel":"#general","attachments":[]}`, string(data))
	})

	t.Run("channel is emitted even when empty", func(t *testing.T) {
		data, err := json.Marshal(NewPayload(New().SetText("hi"), ""))
		require.NoError(t, err)

		var obj map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &obj))
		assert.Contains(t, obj, "channel")
	})
}
