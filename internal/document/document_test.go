package document

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestBuildDeckSkipsMissingImages(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "frame_001.png")
	writePNG(t, first)
	third := filepath.Join(dir, "frame_003.png")
	writePNG(t, third)

	out := filepath.Join(dir, "deck.docx")
	n, err := New(logger.Nop()).BuildDeck("Intro", []string{first, filepath.Join(dir, "frame_002.png"), third}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestBuildDeckNoImages(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.docx")
	n, err := New(logger.Nop()).BuildDeck("Intro", nil, out)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.FileExists(t, out)
}

func TestBuildSummaryAndTranscript(t *testing.T) {
	dir := t.TempDir()
	b := New(logger.Nop())

	summary := filepath.Join(dir, "summary.docx")
	require.NoError(t, b.BuildSummary("Intro", "## Key points\n\n- **Go** is typed\n1. first\n---\nplain", summary))
	assert.FileExists(t, summary)

	transcript := filepath.Join(dir, "transcript.docx")
	require.NoError(t, b.BuildTranscript("Intro", "# Part 1\nhello\nworld\n\nsecond block", transcript))
	assert.FileExists(t, transcript)
}

func TestParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "joins lines", in: "a\nb\n\nc", want: []string{"a b", "c"}},
		{name: "headings stand alone", in: "## Intro\nfirst\n## Next\nsecond", want: []string{"## Intro", "first", "## Next", "second"}},
		{name: "crlf and extra blanks", in: "a\r\n\r\n\r\nb  \n", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paragraphs(tt.in))
		})
	}
}

func TestResolveImages(t *testing.T) {
	slides := []models.Slide{
		{Timestamp: 22, Image: "/frames/lec-1/frame_001.jpg"},
		{Timestamp: 45, Image: "/frames/lec-1/frame_002.jpg"},
	}

	paths, err := ResolveImages("/data/frames", "/frames", slides)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("/data/frames", "lec-1", "frame_001.jpg"),
		filepath.Join("/data/frames", "lec-1", "frame_002.jpg"),
	}, paths)
}

func TestResolveImagesRejectsEscapes(t *testing.T) {
	for _, ref := range []string{"/frames/../etc/passwd", "/other/lec/frame.jpg", "/frames/"} {
		_, err := ResolveImages("/data/frames", "/frames", []models.Slide{{Image: ref}})
		require.ErrorIs(t, err, errOutsideRoot, ref)
	}
}
