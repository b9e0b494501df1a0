package tutorial

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qchess/chess/notation"
	"github.com/kegliz/qchess/internal/logger"
)

const sampleTutorial = `{
	"board": [
		"000",
		"000",
		"K00"
	],
	"initial_message": ["Split the king", "with a1^b1a2."],
	"tutorial_steps": [
		{
			"message": ["Now collapse."],
			"valid_moves": {
				"move_type": ["Split"],
				"source": ["a1"],
				"source_piece_type": ["KING"]
			}
		},
		{
			"message": ["Done."],
			"valid_moves": {
				"collapse": true
			}
		}
	]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleTutorial), 0o644))
	return path
}

func quietLogger() *logger.Logger {
	return &logger.Logger{Logger: zerolog.Nop()}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Width())
	assert.Len(t, cfg.TutorialSteps, 2)
	assert.Equal(t, []string{"Split the king", "with a1^b1a2."}, cfg.InitialMessage)
	assert.True(t, cfg.TutorialSteps[1].ValidMoves.Collapse)
}

func TestLoadConfig_MissingInitialMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"board": ["K"], "tutorial_steps": []}`), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestSession_StepFlow(t *testing.T) {
	cfg, err := LoadConfig(writeSample(t))
	require.NoError(t, err)

	s, err := NewSession(cfg, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "Split the king with a1^b1a2.", s.InitialMessage())
	assert.False(t, s.Completed())
	assert.False(t, s.CollapseAllowed())

	// a standard move violates the step's move-type constraint
	move, err := notation.ParseCommand("a1b1", 3)
	require.NoError(t, err)
	_, err = s.PerformMove(move)
	require.Error(t, err)

	// collapse is not allowed yet either
	_, err = s.Collapse()
	require.Error(t, err)

	// the expected split advances the tutorial
	move, err = notation.ParseCommand("a1^b1a2", 3)
	require.NoError(t, err)
	msg, err := s.PerformMove(move)
	require.NoError(t, err)
	assert.Equal(t, "Now collapse.", msg)

	require.True(t, s.CollapseAllowed())
	msg, err = s.Collapse()
	require.NoError(t, err)
	assert.Equal(t, "Done.", msg)
	assert.True(t, s.Completed())
}

func TestSession_WrongSourceRejected(t *testing.T) {
	cfg, err := LoadConfig(writeSample(t))
	require.NoError(t, err)

	s, err := NewSession(cfg, quietLogger())
	require.NoError(t, err)

	move, err := notation.ParseCommand("b1^a1a2", 3)
	require.NoError(t, err)
	_, err = s.PerformMove(move)
	require.Error(t, err)
	assert.False(t, s.Completed())
}

func TestProgress(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "progress_template")
	path := filepath.Join(dir, "progress")
	require.NoError(t, os.WriteFile(template, []byte("first 0\nsecond 0\n"), 0o644))

	// missing file is seeded from the template
	p, err := LoadProgress(path, template)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, p.Names())
	assert.False(t, p.AreAllCompleted())
	assert.Equal(t, 0, p.CompletedCount())

	p.MarkCompleted("first")
	require.NoError(t, p.Save())

	// the completion survives a reload
	p2, err := LoadProgress(path, template)
	require.NoError(t, err)
	assert.True(t, p2.IsCompleted("first"))
	assert.False(t, p2.IsCompleted("second"))
	assert.Equal(t, 1, p2.CompletedCount())
	assert.Contains(t, p2.DisplayProgress(), "first Completed")
	assert.Contains(t, p2.DisplayProgress(), "second Not completed")

	// starting over resets everything
	require.NoError(t, p2.StartOver(template))
	assert.False(t, p2.IsCompleted("first"))
}

func TestProgress_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress")
	require.NoError(t, os.WriteFile(path, []byte("broken line with extras\n"), 0o644))
	_, err := LoadProgress(path, path)
	require.Error(t, err)
}
