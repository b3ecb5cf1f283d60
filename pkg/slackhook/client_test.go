package slackhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/slackhook/pkg/errors"
	"github.com/kart-io/slackhook/pkg/message"
)

func TestNew(t *testing.T) {
	t.Run("requires webhook URL", func(t *testing.T) {
		c, err := New("", "#general")
		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		c, err := New("https://example.test/hooks/abc", "#general")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "#general", c.Channel())
	})
}

func TestWithChannel(t *testing.T) {
	c, err := New("https://example.test/hooks/abc", "#general")
	require.NoError(t, err)

	alerts := c.WithChannel("#alerts")

	assert.Equal(t, "#alerts", alerts.Channel())
	assert.Equal(t, "#general", c.Channel())
}

func TestSendText(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "#general")
	require.NoError(t, err)

	rcpt, err := c.SendText(context.Background(), "hi")
	require.NoError(t, err)
	require.NotNil(t, rcpt)

	assert.Equal(t, http.StatusOK, rcpt.StatusCode)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"text":"hi","channel":"#general","attachments":[]}`, string(gotBody))
}

func TestSendMessage(t *testing.T) {
	t.Run("status 200 returns the receipt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		rcpt, err := c.SendMessage(context.Background(), message.New().SetText("hello"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rcpt.StatusCode)
		assert.True(t, rcpt.IsSuccess())
		assert.Equal(t, "ok", string(rcpt.Body))
	})

	t.Run("other 2xx codes are failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		rcpt, err := c.SendMessage(context.Background(), message.New().SetText("hello"))
		assert.Nil(t, rcpt)
		require.Error(t, err)

		assert.True(t, errors.IsResponseError(err))
		assert.Equal(t, http.StatusCreated, errors.StatusCode(err))
	})

	t.Run("non-2xx status carries the actual code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no_service", http.StatusNotFound)
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		_, err = c.SendMessage(context.Background(), message.New().SetText("hello"))
		require.Error(t, err)

		var respErr *errors.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
		assert.Contains(t, respErr.Body, "no_service")
	})

	t.Run("transport failure yields a RequestError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		rcpt, err := c.SendMessage(context.Background(), message.New().SetText("hello"))
		assert.Nil(t, rcpt)
		require.Error(t, err)
		assert.True(t, errors.IsRequestError(err))
		assert.Zero(t, errors.StatusCode(err))
	})

	t.Run("payload carries attachments in order", func(t *testing.T) {
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#deploys")
		require.NoError(t, err)

		msg := message.New().
			SetText("deploy finished").
			AddAttachment(message.NewAttachment().
				SetTitle("build 42").
				SetTitleLink("https://ci.example.test/builds/42").
				SetColor("good").
				SetAuthor("ci-bot", "https://example.test/bot.png").
				AddField(message.NewField("env", "production").WithShort(true))).
			AddAttachment(message.NewAttachment().SetText("second"))

		_, err = c.SendMessage(context.Background(), msg)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"text": "deploy finished",
			"channel": "#deploys",
			"attachments": [
				{
					"title": "build 42",
					"title_link": "https://ci.example.test/builds/42",
					"color": "good",
					"author_name": "ci-bot",
					"author_icon": "https://example.test/bot.png",
					"fields": [{"title": "env", "value": "production", "short": true}]
				},
				{"text": "second", "fields": []}
			]
		}`, string(gotBody))
	})
}

func TestSendMessages(t *testing.T) {
	t.Run("all accepted", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		msgs := []*message.Message{
			message.New().SetText("one"),
			message.New().SetText("two"),
			message.New().SetText("three"),
		}

		receipts, err := c.SendMessages(context.Background(), msgs)
		require.NoError(t, err)
		assert.Len(t, receipts, 3)
		assert.Equal(t, int32(3), requests.Load())
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) == 2 {
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		msgs := []*message.Message{
			message.New().SetText("one"),
			message.New().SetText("two"),
			message.New().SetText("three"),
		}

		receipts, err := c.SendMessages(context.Background(), msgs)
		require.Error(t, err)

		// The third message is never sent.
		assert.Equal(t, int32(2), requests.Load())
		assert.Len(t, receipts, 1)
		assert.True(t, errors.IsResponseError(err))
		assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))
	})

	t.Run("empty batch succeeds without requests", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general")
		require.NoError(t, err)

		receipts, err := c.SendMessages(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, receipts, 0)
		assert.Equal(t, int32(0), requests.Load())
	})
}

func TestOptions(t *testing.T) {
	t.Run("WithUserAgent sets the header", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		c, err := New(srv.URL, "#general", WithUserAgent("slackhook-test/1.0"))
		require.NoError(t, err)

		_, err = c.SendText(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, "slackhook-test/1.0", gotUA)
	})

	t.Run("WithTimeout applies to the HTTP client", func(t *testing.T) {
		c, err := New("https://example.test/hooks/abc", "#general", WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	})

	t.Run("WithHTTPClient replaces the HTTP client", func(t *testing.T) {
		custom := &http.Client{Timeout: time.Second}
		c, err := New("https://example.test/hooks/abc", "#general", WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, c.httpClient)
	})
}
