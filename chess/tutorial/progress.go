package tutorial

import (
	"fmt"
	"os"
	"strings"
)

// Progress tracks which tutorials a player has completed, backed by a
// newline-separated "<name> <0|1>" file. A missing file is seeded from
// the template. Order is preserved: tutorials run in file order.
type Progress struct {
	path    string
	entries []progressEntry
}

type progressEntry struct {
	Name      string
	Completed bool
}

// LoadProgress reads the progress file at path, copying templatePath
// into place first when it does not exist yet.
func LoadProgress(path, templatePath string) (*Progress, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("tutorial: reading progress template: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("tutorial: seeding progress file: %w", err)
		}
	}

	p := &Progress{path: path}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Progress) load() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("tutorial: reading progress file: %w", err)
	}

	p.entries = p.entries[:0]
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("tutorial: malformed progress line %q", line)
		}
		p.entries = append(p.entries, progressEntry{
			Name:      fields[0],
			Completed: fields[1] == "1",
		})
	}
	return nil
}

// Save writes the table back to disk.
func (p *Progress) Save() error {
	var sb strings.Builder
	for _, e := range p.entries {
		v := 0
		if e.Completed {
			v = 1
		}
		fmt.Fprintf(&sb, "%s %d\n", e.Name, v)
	}
	if err := os.WriteFile(p.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("tutorial: writing progress file: %w", err)
	}
	return nil
}

// Names lists the tutorials in running order.
func (p *Progress) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}
	return names
}

// IsCompleted reports one tutorial's status.
func (p *Progress) IsCompleted(name string) bool {
	for _, e := range p.entries {
		if e.Name == name {
			return e.Completed
		}
	}
	return false
}

// MarkCompleted records a finished tutorial; call Save to persist.
func (p *Progress) MarkCompleted(name string) {
	for i := range p.entries {
		if p.entries[i].Name == name {
			p.entries[i].Completed = true
			return
		}
	}
}

// AreAllCompleted reports whether nothing is left to play.
func (p *Progress) AreAllCompleted() bool {
	for _, e := range p.entries {
		if !e.Completed {
			return false
		}
	}
	return true
}

// CompletedCount returns how many tutorials are done.
func (p *Progress) CompletedCount() int {
	n := 0
	for _, e := range p.entries {
		if e.Completed {
			n++
		}
	}
	return n
}

// DisplayProgress formats the table for the shell.
func (p *Progress) DisplayProgress() string {
	var sb strings.Builder
	for _, e := range p.entries {
		status := "Not completed"
		if e.Completed {
			status = "Completed"
		}
		fmt.Fprintf(&sb, "%s %s\n", e.Name, status)
	}
	return sb.String()
}

// StartOver re-seeds the progress file from the template and reloads.
func (p *Progress) StartOver(templatePath string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("tutorial: reading progress template: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("tutorial: resetting progress file: %w", err)
	}
	return p.load()
}
