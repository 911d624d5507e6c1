package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeMediaDocument(t *testing.T) {
	tests := []struct {
		name  string
		attrs []tg.DocumentAttributeClass
		want  string
	}{
		{"named", []tg.DocumentAttributeClass{&tg.DocumentAttributeFilename{FileName: "report.pdf"}}, "report.pdf"},
		{"named video", []tg.DocumentAttributeClass{&tg.DocumentAttributeVideo{}, &tg.DocumentAttributeFilename{FileName: "clip.mkv"}}, "clip.mkv"},
		{"video", []tg.DocumentAttributeClass{&tg.DocumentAttributeVideo{}}, "video.mp4"},
		{"audio", []tg.DocumentAttributeClass{&tg.DocumentAttributeAudio{}}, "audio.mp3"},
		{"bare", nil, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &tg.Document{ID: 1, AccessHash: 2, FileReference: []byte{3}, Size: 4096, Attributes: tt.attrs}
			info, err := DescribeMedia(&tg.MessageMediaDocument{Document: doc})
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Name)
			assert.Equal(t, int64(4096), info.Size)

			loc, ok := info.Location.(*tg.InputDocumentFileLocation)
			require.True(t, ok)
			assert.Equal(t, int64(1), loc.ID)
			assert.Equal(t, int64(2), loc.AccessHash)
		})
	}
}

func TestDescribeMediaPhotoPicksLargest(t *testing.T) {
	photo := &tg.Photo{
		ID:         10,
		AccessHash: 20,
		Sizes: []tg.PhotoSizeClass{
			&tg.PhotoStrippedSize{Type: "i"},
			&tg.PhotoSize{Type: "m", Size: 1000},
			&tg.PhotoSizeProgressive{Type: "y", Sizes: []int{500, 9000, 30000}},
			&tg.PhotoSize{Type: "x", Size: 20000},
		},
	}

	info, err := DescribeMedia(&tg.MessageMediaPhoto{Photo: photo})
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", info.Name)
	assert.Equal(t, int64(30000), info.Size)

	loc, ok := info.Location.(*tg.InputPhotoFileLocation)
	require.True(t, ok)
	assert.Equal(t, "y", loc.ThumbSize)
}

func TestDescribeMediaUnsupported(t *testing.T) {
	for _, media := range []tg.MessageMediaClass{
		nil,
		&tg.MessageMediaGeo{},
		&tg.MessageMediaDocument{Document: &tg.DocumentEmpty{}},
		&tg.MessageMediaPhoto{Photo: &tg.Photo{}},
	} {
		_, err := DescribeMedia(media)
		assert.ErrorIs(t, err, ErrNoMedia)
	}
}
