package editor

import (
	"strings"
	"sync"
	"testing"
)

func TestSetTextReplacesText(t *testing.T) {
	b := New("")
	b.SetText("# Shop")
	if b.Text() != "# Shop" {
		t.Errorf("Text() = %q", b.Text())
	}
}

func TestOnChangeFiresForEveryEdit(t *testing.T) {
	b := New("")
	var seen []string
	b.OnChange(func(s string) { seen = append(seen, s) })

	for _, s := range []string{"#", "# S", "# Shop"} {
		b.SetText(s)
	}
	if len(seen) != 3 || seen[2] != "# Shop" {
		t.Errorf("listener saw %v", seen)
	}
}

func TestOnChangeCancel(t *testing.T) {
	b := New("")
	var a, c int
	cancel := b.OnChange(func(string) { a++ })
	b.OnChange(func(string) { c++ })

	b.SetText("one")
	cancel()
	b.SetText("two")

	if a != 1 {
		t.Errorf("cancelled listener ran %d times, want 1", a)
	}
	if c != 2 {
		t.Errorf("listener ran %d times, want 2", c)
	}
}

func TestListenerMayReadBuffer(t *testing.T) {
	b := New("")
	var got string
	b.OnChange(func(string) { got = b.Text() })
	b.SetText("# Shop")
	if got != "# Shop" {
		t.Errorf("listener read %q", got)
	}
}

func TestBlankTextIsAccepted(t *testing.T) {
	b := New("# Shop")
	b.SetText("   \n\t")
	if b.Text() != "   \n\t" {
		t.Errorf("buffer should store whitespace as-is, got %q", b.Text())
	}
}

func TestTemplateSeed(t *testing.T) {
	b := NewWithTemplate()
	if !strings.Contains(b.Text(), "## Use Cases") {
		t.Error("template should include a use cases section")
	}
}

func TestConcurrentWrites(t *testing.T) {
	b := New("")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cancel := b.OnChange(func(string) {})
			b.SetText("x")
			_ = b.Text()
			cancel()
		}()
	}
	wg.Wait()
	if b.Text() != "x" {
		t.Errorf("Text() = %q", b.Text())
	}
}
