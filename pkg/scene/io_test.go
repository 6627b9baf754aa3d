package scene

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	s := Build(DefaultParams())
	r := Analyze(s)
	path := filepath.Join(t.TempDir(), "scene.json")

	if err := WriteFile(NewDocument(s, &r), path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(d.Scene, s) {
		t.Error("scene changed after round trip")
	}
	if d.Report == nil || d.Report.Columns != 3 {
		t.Errorf("report = %+v", d.Report)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"BadJSON", `{`, "unmarshal scene"},
		{"NoDoors", `{"scene":{}}`, "2 doors"},
		{"FutureVersion", `{"version":99}`, "unsupported"},
		{"ItemMismatch", `{"scene":{"params":{"num_items":3},"doors":[{},{}]}}`, "params say 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error")
	}
}
