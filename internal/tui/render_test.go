package tui

import (
	"strings"
	"testing"

	"github.com/starford/sikabut/internal/checklist"
	"github.com/starford/sikabut/internal/portal"
)

func TestChecklist_Layouts(t *testing.T) {
	b := portal.DefaultBranding()
	s := NewStyles(b.Theme)

	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"complete", nil, []string{b.Copy.Complete}},
		{"single", "Surat Kuasa", []string{b.Copy.SingleMissing + " Surat Kuasa"}},
		{"numbered", []any{"KTP", " ", "KK"}, []string{b.Copy.MissingHeader, "1. KTP", "2. KK"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Checklist(checklist.Derive(tt.in), b, s)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestRender_IdleIsEmpty(t *testing.T) {
	b := portal.DefaultBranding()
	if out := Render(portal.View{State: portal.Idle}, b, NewStyles(b.Theme)); out != "" {
		t.Errorf("idle render = %q", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Syarat\n\n- KTP\n", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Syarat") || !strings.Contains(out, "KTP") {
		t.Errorf("rendered = %q", out)
	}
}
