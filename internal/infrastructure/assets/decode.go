package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
)

// DecodeImage decodes png, jpeg, gif or webp bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, nil
	}
	return nil, fmt.Errorf("undecodable image (%d bytes): %w", len(data), err)
}

// ResolveImage resolves a reference and decodes it in one step.
func (r *Resolver) ResolveImage(ctx context.Context, reference, tier string) (image.Image, error) {
	data, err := r.Resolve(ctx, reference, tier)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, bannererrors.ImageFetch("assets.ResolveImage", err)
	}
	return img, nil
}

// ResolveCertificationLogo returns a whitespace-trimmed certification logo.
// The pre-cropped tier is preferred; on a miss the primary asset is
// resolved, trimmed, and the cropped copy written back best-effort so the
// crop runs at most once per asset.
func (r *Resolver) ResolveCertificationLogo(ctx context.Context, reference string) (image.Image, error) {
	key := CacheKey(reference) + ".png"

	if data, ok := r.GetCached(TierCertificationsCrop, key); ok {
		if img, err := DecodeImage(data); err == nil {
			return img, nil
		}
		// An undecodable cropped entry falls through to the primary path.
	}

	img, err := r.ResolveImage(ctx, reference, TierCertifications)
	if err != nil {
		return nil, err
	}

	trimmed := TrimWhitespace(img)

	go func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, trimmed); err != nil {
			return
		}
		r.StoreDerived(TierCertificationsCrop, key, buf.Bytes())
	}()

	return trimmed, nil
}

// TrimWhitespace crops away the uniform white or transparent border around
// an image. An image that is entirely whitespace is returned unchanged.
func TrimWhitespace(img image.Image) image.Image {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isWhitespace(img.At(x, y).RGBA()) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return img
	}
	rect := image.Rect(minX, minY, maxX+1, maxY+1)
	if rect == bounds {
		return img
	}
	return imaging.Crop(img, rect)
}

func isWhitespace(r, g, b, a uint32) bool {
	if a < 0x1000 {
		return true
	}
	const nearWhite = 0xf800
	return r >= nearWhite && g >= nearWhite && b >= nearWhite
}
