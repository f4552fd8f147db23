package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRuleSet = `
[[rule]]
id     = "click-log"
marker = "DEBUG: Click event occurred"

[rule.anchor]
equals = "    if (ui->crf_radioButton->isChecked())"

[[rule.context]]
offset   = 1
contains = "switch"

[rule.insert]
position = "before"
content  = 'qDebug() << "DEBUG: Click event occurred";'

[[rule]]
id     = "size-log"
marker = "DEBUG: Received data size"

[rule.anchor]
contains = "socket->readAll()"
occurrences = "all"

[rule.insert]
position = "after"
content  = 'qDebug() << "DEBUG: Received data size:" << data.size();'
indent   = "anchor"
`

func TestParseSampleRuleSet(t *testing.T) {
	rs, err := Parse([]byte(sampleRuleSet))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(rs.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs.Rules))
	}

	first := rs.Rules[0]
	if first.ID != "click-log" {
		t.Errorf("expected id 'click-log', got %q", first.ID)
	}
	if first.Anchor.Kind() != AnchorEquals {
		t.Errorf("expected equals anchor, got kind %d", first.Anchor.Kind())
	}
	if len(first.Context) != 1 || first.Context[0].Offset != 1 {
		t.Errorf("unexpected context %+v", first.Context)
	}
	if first.Insert.Position != PositionBefore {
		t.Errorf("expected position before, got %q", first.Insert.Position)
	}

	second := rs.Rules[1]
	if second.Anchor.Kind() != AnchorContains {
		t.Errorf("expected contains anchor, got kind %d", second.Anchor.Kind())
	}
	if !second.Anchor.All() {
		t.Error("expected occurrences=all")
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	bad := `
[[rule]]
id      = "r1"
marker  = "M"
postion = "before"

[rule.anchor]
equals = "x"

[rule.insert]
position = "before"
content  = "M"
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("error %q does not mention unknown key", err.Error())
	}
}

func TestParseRejectsInvalidRule(t *testing.T) {
	bad := `
[[rule]]
id     = "r1"
marker = "M"

[rule.anchor]
equals = "x"

[rule.insert]
position = "before"
content  = "no marker here"
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "does not occur in insert content") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	if err := os.WriteFile(path, []byte(sampleRuleSet), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if rs.Path != path {
		t.Errorf("expected Path %q, got %q", path, rs.Path)
	}
	if len(rs.Rules) != 2 {
		t.Errorf("expected 2 rules, got %d", len(rs.Rules))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	if err := os.WriteFile(path, []byte("[[rule]\nid="), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse TOML") {
		t.Fatalf("expected TOML parse error, got %v", err)
	}
}
