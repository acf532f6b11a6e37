package rr

import (
	"fmt"
	"os/exec"
	"strings"
)

// TagCloudGenerator renders a tag cloud image from concatenated record
// summaries. Implementations are external collaborators; the report stage
// only hands them text and a target path.
type TagCloudGenerator interface {
	Generate(text, outputPath string) error
}

// commandTagCloud runs an external command with the text on stdin and the
// output path appended to the arguments.
type commandTagCloud struct {
	command []string
}

// NewCommandTagCloud returns a generator which shells out to given command.
func NewCommandTagCloud(command []string) TagCloudGenerator {
	return &commandTagCloud{
		command: command,
	}
}

// Generate runs the configured command.
func (g *commandTagCloud) Generate(text, outputPath string) error {
	if len(g.command) == 0 {
		return fmt.Errorf("no tag cloud command configured")
	}

	args := append(g.command[1:], outputPath)

	cmd := exec.Command(g.command[0], args...)
	cmd.Stdin = strings.NewReader(text)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tag cloud command failed: %s (%s)", err, strings.TrimSpace(string(output)))
	}

	return nil
}
