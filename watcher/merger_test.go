package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentHeartbeat struct {
	sample Sample
	ts     time.Time
}

type fakeSender struct {
	sent []sentHeartbeat
	fail func(s Sample) error
}

func (f *fakeSender) Send(_ context.Context, s Sample, ts time.Time) error {
	f.sent = append(f.sent, sentHeartbeat{sample: s, ts: ts})
	if f.fail != nil {
		return f.fail(s)
	}
	return nil
}

var testBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMergerColdStart(t *testing.T) {
	sender := &fakeSender{}
	m := NewMerger(sender)

	m.Observe(context.Background(), Sample{App: "chrome.exe", Title: "Docs"}, testBase)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, Sample{App: "chrome.exe", Title: "Docs"}, sender.sent[0].sample)
	assert.Equal(t, testBase, sender.sent[0].ts)
}

func TestMergerContinuation(t *testing.T) {
	sender := &fakeSender{}
	m := NewMerger(sender)
	s := Sample{App: "chrome.exe", Title: "Docs"}

	m.Observe(context.Background(), s, testBase)
	m.Observe(context.Background(), s, testBase.Add(5*time.Second))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, s, sender.sent[0].sample)
	assert.Equal(t, s, sender.sent[1].sample)
	assert.True(t, sender.sent[1].ts.After(sender.sent[0].ts))
}

func TestMergerTransition(t *testing.T) {
	sender := &fakeSender{}
	m := NewMerger(sender)
	a := Sample{App: "chrome.exe", Title: "Docs"}
	b := Sample{App: "code.exe", Title: "main.rs"}

	m.Observe(context.Background(), a, testBase)
	t2 := testBase.Add(5 * time.Second)
	m.Observe(context.Background(), b, t2)

	require.Len(t, sender.sent, 3)
	// Closing heartbeat lands strictly before the opening one.
	assert.Equal(t, a, sender.sent[1].sample)
	assert.Equal(t, t2.Add(-time.Millisecond), sender.sent[1].ts)
	assert.Equal(t, b, sender.sent[2].sample)
	assert.Equal(t, t2, sender.sent[2].ts)

	// Tracked state is now b: observing b again is a single keep-alive.
	m.Observe(context.Background(), b, t2.Add(5*time.Second))
	require.Len(t, sender.sent, 4)
	assert.Equal(t, b, sender.sent[3].sample)
}

func TestMergerTitleChangeIsTransition(t *testing.T) {
	sender := &fakeSender{}
	m := NewMerger(sender)

	m.Observe(context.Background(), Sample{App: "chrome.exe", Title: "Docs"}, testBase)
	m.Observe(context.Background(), Sample{App: "chrome.exe", Title: "Mail"}, testBase.Add(5*time.Second))

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "Docs", sender.sent[1].sample.Title)
	assert.Equal(t, "Mail", sender.sent[2].sample.Title)
}

func TestMergerCloseFailureStillOpens(t *testing.T) {
	a := Sample{App: "chrome.exe", Title: "Docs"}
	b := Sample{App: "code.exe", Title: "main.rs"}
	sender := &fakeSender{
		fail: func(s Sample) error {
			if s == a {
				return errors.New("backend unreachable")
			}
			return nil
		},
	}
	m := NewMerger(sender)

	m.Observe(context.Background(), a, testBase)
	t2 := testBase.Add(5 * time.Second)
	m.Observe(context.Background(), b, t2)

	// The failed close must not suppress the open.
	require.Len(t, sender.sent, 3)
	assert.Equal(t, b, sender.sent[2].sample)
	assert.Equal(t, t2, sender.sent[2].ts)
}

func TestMergerStateAdvancesOnTotalFailure(t *testing.T) {
	sender := &fakeSender{
		fail: func(Sample) error { return errors.New("backend unreachable") },
	}
	m := NewMerger(sender)
	a := Sample{App: "chrome.exe", Title: "Docs"}
	b := Sample{App: "code.exe", Title: "main.rs"}

	m.Observe(context.Background(), a, testBase)
	m.Observe(context.Background(), b, testBase.Add(5*time.Second))
	sender.fail = nil
	m.Observe(context.Background(), b, testBase.Add(10*time.Second))

	// Tracked state reflects observed reality, not delivery success: the
	// third observation of b is a keep-alive, not another transition.
	require.Len(t, sender.sent, 4)
	assert.Equal(t, b, sender.sent[3].sample)
	assert.Equal(t, testBase.Add(10*time.Second), sender.sent[3].ts)
}

func TestMergerEndToEndSequence(t *testing.T) {
	sender := &fakeSender{}
	m := NewMerger(sender)
	rules := NewRuleSet(false, nil, nil)

	ticks := []struct {
		app, title string
		at         time.Duration
	}{
		{"chrome.exe", "Docs", 0},
		{"chrome.exe", "Docs", 5000 * time.Millisecond},
		{"code.exe", "main.rs", 10000 * time.Millisecond},
	}
	for _, tick := range ticks {
		m.Observe(context.Background(), Normalize(tick.app, tick.title, rules), testBase.Add(tick.at))
	}

	want := []sentHeartbeat{
		{Sample{"chrome.exe", "Docs"}, testBase},
		{Sample{"chrome.exe", "Docs"}, testBase.Add(5000 * time.Millisecond)},
		{Sample{"chrome.exe", "Docs"}, testBase.Add(9999 * time.Millisecond)},
		{Sample{"code.exe", "main.rs"}, testBase.Add(10000 * time.Millisecond)},
	}
	assert.Equal(t, want, sender.sent)
}
