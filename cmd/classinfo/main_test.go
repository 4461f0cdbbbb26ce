package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/classreader/classfile"
)

// helloClass is a hand-assembled class with one method carrying a Code attribute.
func helloClass() []byte {
	var b bytes.Buffer
	u2 := func(v uint16) { b.Write([]byte{byte(v >> 8), byte(v)}) }
	u4 := func(v uint32) { b.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}) }
	utf8 := func(s string) { b.WriteByte(1); u2(uint16(len(s))); b.WriteString(s) }

	u4(0xCAFEBABE)
	u2(0)
	u2(61)
	u2(7)
	// pool: 1 Code, 2 <init>, 3 ()V, 4 Class(5), 5 Hello, 6 Integer(7)
	utf8("Code")
	utf8("<init>")
	utf8("()V")
	b.WriteByte(7)
	u2(5)
	utf8("Hello")
	b.WriteByte(3)
	u4(7)

	u2(0x0021)
	u2(4)
	u2(0)
	u2(0)
	u2(0)

	u2(1)
	u2(0x0001)
	u2(2)
	u2(3)
	u2(1)
	u2(1)
	u4(2 + 2 + 4 + 1 + 2 + 2)
	u2(1)
	u2(1)
	u4(1)
	b.WriteByte(0xb1)
	u2(0)
	u2(0)
	return b.Bytes()
}

func writeClass(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Hello.class")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPrintsSummary(t *testing.T) {
	path := writeClass(t, helloClass())

	var stdout, stderr bytes.Buffer
	if err := run(runOptions{path: path}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := strings.Join([]string{
		"Class file: " + path,
		"Magic: 0xCAFEBABE",
		"Version: 61.0",
		"Constant pool entries: 7",
		"Methods: 1",
		"",
	}, "\n")
	if stdout.String() != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestRunDebugLogsToStderr(t *testing.T) {
	path := writeClass(t, helloClass())

	var stdout, stderr bytes.Buffer
	if err := run(runOptions{path: path, debug: true}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, msg := range []string{"initializing classinfo", "read magic", "found Code attribute"} {
		if !strings.Contains(stderr.String(), msg) {
			t.Errorf("stderr missing %q", msg)
		}
	}
}

func TestRunConfigLimits(t *testing.T) {
	path := writeClass(t, helloClass())
	cfgPath := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(cfgPath, []byte("limits:\n  max_major_version: 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run(runOptions{path: path, configPath: cfgPath}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unsupported_version") {
		t.Fatalf("expected unsupported version, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("summary printed on failure: %s", stdout.String())
	}
}

func TestRunFailures(t *testing.T) {
	data := helloClass()
	data[3] = 0x00

	var stdout, stderr bytes.Buffer
	err := run(runOptions{path: writeClass(t, data)}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "format_mismatch") {
		t.Errorf("expected format mismatch, got %v", err)
	}

	err = run(runOptions{path: filepath.Join(t.TempDir(), "nope.class")}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "[load]") {
		t.Errorf("expected load error, got %v", err)
	}

	err = run(runOptions{path: writeClass(t, helloClass()), interactive: true}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Errorf("expected terminal error, got %v", err)
	}
}

func TestBrowserModel(t *testing.T) {
	cf, err := classfile.DecodeBytes(helloClass())
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	m := newBrowserModel("Hello.class", cf)
	if got := len(m.tables[tabPool].Rows()); got != 6 {
		t.Errorf("pool rows = %d, want 6", got)
	}
	rows := m.tables[tabMethods].Rows()
	if len(rows) != 1 || rows[0][2] != "<init>" || rows[0][1] != "public" {
		t.Errorf("method rows = %v", rows)
	}
	if !strings.Contains(m.View(), "class Hello") {
		t.Error("view does not name the class")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(*browserModel).active != tabMethods {
		t.Error("tab did not switch to methods")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestClassKind(t *testing.T) {
	tests := []struct {
		flags classfile.AccessFlags
		want  string
	}{
		{classfile.AccPublic | classfile.AccSuper, "class"},
		{classfile.AccPublic | classfile.AccAbstract, "abstract class"},
		{classfile.AccInterface | classfile.AccAbstract, "interface"},
	}
	for _, tt := range tests {
		if got := classKind(tt.flags); got != tt.want {
			t.Errorf("classKind(0x%04X) = %q, want %q", uint16(tt.flags), got, tt.want)
		}
	}
}

func TestMethodRowsWithoutCode(t *testing.T) {
	cf := &classfile.ClassFile{Methods: []classfile.Method{
		{AccessFlags: classfile.AccPublic | classfile.AccNative},
		{AccessFlags: classfile.AccAbstract},
		{AccessFlags: classfile.AccPrivate},
	}}
	rows := methodRows(cf)
	want := []string{"native", "abstract", "-"}
	for i, w := range want {
		if rows[i][4] != w {
			t.Errorf("row %d code = %q, want %q", i, rows[i][4], w)
		}
	}
}

func TestDescribeEntry(t *testing.T) {
	cf, err := classfile.DecodeBytes(helloClass())
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	tests := []struct {
		index uint16
		want  string
	}{
		{1, `"Code"`},
		{4, `#5 "Hello"`},
		{6, "7 (0x00000007)"},
	}
	for _, tt := range tests {
		if got := describeEntry(cf.Pool, cf.Pool[tt.index]); got != tt.want {
			t.Errorf("entry %d = %q, want %q", tt.index, got, tt.want)
		}
	}
	if got := describeEntry(cf.Pool, &classfile.Unknown{RawTag: 99}); got != "unrecognized tag 99" {
		t.Errorf("unknown = %q", got)
	}
}
