package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
)

const (
	MaxUploadBytes = 5 << 20
	MaxSide        = 512
	webpQuality    = 82
)

// ObjectStore é o destino dos arquivos processados.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Normalize decodifica JPEG, PNG ou WebP, reduz o maior lado para MaxSide
// e reencoda em WebP.
func Normalize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	img := fit(src, MaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// PhotoUploader processa e grava fotos de perfil.
type PhotoUploader struct {
	store ObjectStore
}

func NewPhotoUploader(store ObjectStore) *PhotoUploader {
	return &PhotoUploader{store: store}
}

func (u *PhotoUploader) Upload(
	ctx context.Context,
	establishmentID uint,
	userID uint,
	r io.Reader,
) (string, error) {

	body, err := Normalize(r)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("establishments/%d/users/%d/%s.webp", establishmentID, userID, uuid.NewString())
	return u.store.Put(ctx, key, "image/webp", body)
}
