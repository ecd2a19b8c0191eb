package state

import "testing"

func TestDocumentRememberLastWriteWins(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	doc.Remember("name", "Alice")
	doc.Remember("name", "Bob")

	if got := doc.UserProfile["name"]; got != "Bob" {
		t.Fatalf("name = %q, want Bob", got)
	}
	if len(doc.UserProfile) != 1 {
		t.Fatalf("unexpected profile: %#v", doc.UserProfile)
	}
}

func TestDocumentResetToolOutputsKeepsProfileAndDocuments(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	doc.Remember("name", "Alice")
	doc.SetToolOutput(SlotCalculation, "4")
	doc.AppendRecord("a.png", "hello")

	doc.ResetToolOutputs()

	if len(doc.ToolOutputs) != 0 {
		t.Fatalf("tool outputs not reset: %#v", doc.ToolOutputs)
	}
	if doc.UserProfile["name"] != "Alice" {
		t.Fatalf("profile lost: %#v", doc.UserProfile)
	}
	if len(doc.Documents) != 1 {
		t.Fatalf("documents lost: %#v", doc.Documents)
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	doc.Remember("name", "Alice")
	doc.AppendRecord("a.png", "hello")

	clone := doc.Clone()
	clone.Remember("name", "Bob")
	clone.Documents[0].Text = "changed"

	if doc.UserProfile["name"] != "Alice" {
		t.Fatalf("clone shares profile map")
	}
	if doc.Documents[0].Text != "hello" {
		t.Fatalf("clone shares documents slice")
	}
}

func TestDecodeUpgradesMissingVersion(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{"user_profile":{},"tool_outputs":{}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Version != SchemaVersion {
		t.Fatalf("version = %d, want %d", doc.Version, SchemaVersion)
	}
}

func TestEncodeEmitsEmptySections(t *testing.T) {
	t.Parallel()

	raw, err := Encode(&Document{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "{\n  \"version\": 1,\n  \"user_profile\": {},\n  \"tool_outputs\": {}\n}\n"
	if string(raw) != want {
		t.Fatalf("Encode() = %q, want %q", raw, want)
	}
}
