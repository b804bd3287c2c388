package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestFactory_Disabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewFactory(&buf, false).New(10, "rows")

	if _, ok := p.(Noop); !ok {
		t.Fatalf("New() = %T, want Noop", p)
	}
	_ = p.Add(10)
	_ = p.Finish()
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
}

func TestFactory_RendersPercent(t *testing.T) {
	var buf bytes.Buffer
	p := NewFactory(&buf, true).New(4, "rows")

	if err := p.Add(4); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("output %q does not show completion", buf.String())
	}
}
