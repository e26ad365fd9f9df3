package claude

import (
	"testing"
)

func TestTextContent(t *testing.T) {
	blocks := TextContent("hello")
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0].Type != ContentTypeText || blocks[0].Text != "hello" {
		t.Errorf("block = %+v, want text hello", blocks[0])
	}
}

func TestGetDisplayContent(t *testing.T) {
	tests := []struct {
		name   string
		blocks []ContentBlock
		want   string
	}{
		{"empty", nil, ""},
		{"text only", TextContent("hi"), "hi"},
		{
			"text and image",
			[]ContentBlock{
				{Type: ContentTypeText, Text: "look"},
				{Type: ContentTypeImage, Source: &ImageSource{Type: "base64", MediaType: "image/png"}},
			},
			"look\n[Image]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetDisplayContent(tt.blocks); got != tt.want {
				t.Errorf("GetDisplayContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPermissionResultConstructors(t *testing.T) {
	if r := Allow(); r.Behavior != PermissionAllow || r.Interrupt {
		t.Errorf("Allow() = %+v", r)
	}

	input := []byte(`{"answers":{}}`)
	if r := AllowWithInput(input); r.Behavior != PermissionAllow || string(r.UpdatedInput) != string(input) {
		t.Errorf("AllowWithInput() = %+v", r)
	}

	if r := Deny("nope"); r.Behavior != PermissionDeny || r.Message != "nope" || r.Interrupt {
		t.Errorf("Deny() = %+v", r)
	}

	if r := DenyWithInterrupt("do this instead"); r.Behavior != PermissionDeny || r.Message != "do this instead" || !r.Interrupt {
		t.Errorf("DenyWithInterrupt() = %+v", r)
	}
}
