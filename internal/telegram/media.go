package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/gofile-relay-bot/internal/transfer"
)

// ErrNoMedia is returned for messages without a downloadable attachment.
var ErrNoMedia = errors.New("message has no downloadable media")

// MediaInfo is a Telegram attachment ready to download.
type MediaInfo struct {
	Name     string
	Size     int64
	Location tg.InputFileLocationClass
}

// DescribeMedia picks the file behind a message attachment. Documents keep
// their own name; videos, audio and photos without one get a generic name.
func DescribeMedia(media tg.MessageMediaClass) (*MediaInfo, error) {
	switch m := media.(type) {
	case *tg.MessageMediaDocument:
		doc, ok := m.Document.(*tg.Document)
		if !ok {
			return nil, ErrNoMedia
		}
		return &MediaInfo{
			Name:     documentName(doc),
			Size:     doc.Size,
			Location: doc.AsInputDocumentFileLocation(),
		}, nil
	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.(*tg.Photo)
		if !ok {
			return nil, ErrNoMedia
		}
		thumb, size := largestPhotoSize(photo.Sizes)
		if thumb == "" {
			return nil, ErrNoMedia
		}
		return &MediaInfo{
			Name: "photo.jpg",
			Size: size,
			Location: &tg.InputPhotoFileLocation{
				ID:            photo.ID,
				AccessHash:    photo.AccessHash,
				FileReference: photo.FileReference,
				ThumbSize:     thumb,
			},
		}, nil
	default:
		return nil, ErrNoMedia
	}
}

func documentName(doc *tg.Document) string {
	var fallback string
	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeFilename:
			if a.FileName != "" {
				return a.FileName
			}
		case *tg.DocumentAttributeVideo:
			if fallback == "" {
				fallback = "video.mp4"
			}
		case *tg.DocumentAttributeAudio:
			if fallback == "" {
				fallback = "audio.mp3"
			}
		}
	}
	if fallback == "" {
		fallback = "file"
	}
	return fallback
}

func largestPhotoSize(sizes []tg.PhotoSizeClass) (string, int64) {
	var (
		thumb string
		best  int64
	)
	for _, s := range sizes {
		var size int64
		switch ps := s.(type) {
		case *tg.PhotoSize:
			size = int64(ps.Size)
		case *tg.PhotoSizeProgressive:
			for _, n := range ps.Sizes {
				if int64(n) > size {
					size = int64(n)
				}
			}
		default:
			continue
		}
		if thumb == "" || size > best {
			thumb, best = s.GetType(), size
		}
	}
	return thumb, best
}

// MediaSource downloads a Telegram attachment. It satisfies relay.Source.
type MediaSource struct {
	api  *tg.Client
	info *MediaInfo
}

func NewMediaSource(api *tg.Client, media tg.MessageMediaClass) (*MediaSource, error) {
	info, err := DescribeMedia(media)
	if err != nil {
		return nil, err
	}
	return &MediaSource{api: api, info: info}, nil
}

func (s *MediaSource) Describe(context.Context) (string, int64, error) {
	return s.info.Name, s.info.Size, nil
}

func (s *MediaSource) Fetch(ctx context.Context, dst io.Writer, t *transfer.Tracker) error {
	_, err := downloader.NewDownloader().
		Download(s.api, s.info.Location).
		Stream(ctx, t.Writer(ctx, dst))
	if err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	return nil
}
