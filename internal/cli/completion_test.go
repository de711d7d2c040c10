package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell   string
		wantErr bool
	}{
		{shell: "bash"},
		{shell: "zsh"},
		{shell: "fish"},
		{shell: "powershell"},
		{shell: "tcsh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())

			var out bytes.Buffer
			root := New(io.Discard, log.InfoLevel).RootCommand()
			root.SetOut(&out)
			root.SetErr(io.Discard)
			root.SetArgs([]string{"completion", tt.shell})

			err := root.Execute()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %q", tt.shell, appName)
			}
		})
	}
}

func TestShellNamesSorted(t *testing.T) {
	want := []string{"bash", "fish", "powershell", "zsh"}
	got := shellNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("shellNames() = %v, want %v", got, want)
	}
}
