package banner

import (
	"context"
	"image"
	"sort"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/sync/errgroup"

	"github.com/nabondance/trailhead-banner-go/internal/domain/layout"
	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
)

const (
	certAreaTop         = 110.0
	certAreaWidthRatio  = 0.52
	certSpacing         = 5.0
	certCountBubbleSize = 22.0
)

type certLogo struct {
	title   string
	img     image.Image
	expired bool
}

// CertificationsComponent draws the certification logo grid on the left
// side of the banner. Logos download concurrently within the batch,
// bounded only by the item count.
type CertificationsComponent struct {
	prepared

	logos []certLogo
	grid  layout.Grid

	areaX float64
	areaY float64

	countFace text.Face
	textHex   string
	total     int
}

// NewCertificationsComponent creates the certifications component.
func NewCertificationsComponent() *CertificationsComponent {
	return &CertificationsComponent{}
}

func (c *CertificationsComponent) Name() string { return "certifications" }

func (c *CertificationsComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	if !in.Options.DisplayCertifications {
		return nil
	}
	if in.Data == nil || in.Data.Certifications == nil || len(in.Data.Certifications.Certifications) == 0 {
		c.warnf("no certifications to display")
		return nil
	}

	certs := selectCertifications(in.Data.Certifications.Certifications, in.Options)
	if len(certs) == 0 {
		c.warnf("no certifications left after filtering")
		return nil
	}

	fetchStart := time.Now()
	results := make([]*certLogo, len(certs))
	var mu sync.Mutex
	var failed []string

	// Per-item downloads run concurrently within the batch; counts are
	// account-bounded (tens, not thousands), so no cap is applied.
	g, gctx := errgroup.WithContext(ctx)
	for i, cert := range certs {
		g.Go(func() error {
			img, err := in.Assets.ResolveCertificationLogo(gctx, cert.LogoURL)
			if err != nil {
				mu.Lock()
				failed = append(failed, cert.Title)
				mu.Unlock()
				return nil
			}
			if cert.Status.Expired {
				img = imaging.Grayscale(img)
			}
			results[i] = &certLogo{title: cert.Title, img: img, expired: cert.Status.Expired}
			return nil
		})
	}
	g.Wait()
	c.recordTiming("logo_fetch_ms", time.Since(fetchStart).Milliseconds())

	sort.Strings(failed)
	for _, title := range failed {
		c.warnf("failed to get certification logo for %q", title)
	}

	for _, logo := range results {
		if logo != nil {
			c.logos = append(c.logos, *logo)
		}
	}
	if len(c.logos) == 0 {
		return nil
	}

	c.areaX = bannerMargin
	c.areaY = certAreaTop
	availableWidth := float64(in.Width)*certAreaWidthRatio - bannerMargin
	availableHeight := float64(in.Height) - certAreaTop - bannerMargin
	c.grid = layout.ComputeGrid(len(c.logos), layout.DefaultCertLogoBox, availableWidth, availableHeight, certSpacing)

	c.total = len(certs)
	c.textHex = "#ffffff"
	if hexColorPattern.MatchString(in.Options.TextColor) {
		c.textHex = in.Options.TextColor
	}
	if in.Fonts.IsAvailable() {
		c.countFace = in.Fonts.Bold(certCountBubbleSize)
	}
	c.setShouldRender(true)
	return nil
}

// selectCertifications applies the expired filter, the sort order and the
// last-N limit, leaving the inbound slice untouched.
func selectCertifications(all []trailhead.Certification, opts trailhead.BannerOptions) []trailhead.Certification {
	certs := make([]trailhead.Certification, 0, len(all))
	for _, cert := range all {
		if cert.Status.Expired && !opts.IncludeExpiredCertifications {
			continue
		}
		certs = append(certs, cert)
	}

	switch opts.CertificationsSort {
	case "alpha":
		sort.SliceStable(certs, func(i, j int) bool { return certs[i].Title < certs[j].Title })
	default:
		// Most recent first. Dates are ISO strings, so ordering them
		// lexicographically is ordering them chronologically.
		sort.SliceStable(certs, func(i, j int) bool { return certs[i].DateCompleted > certs[j].DateCompleted })
	}

	if opts.LastNCertifications > 0 && len(certs) > opts.LastNCertifications {
		certs = certs[:opts.LastNCertifications]
	}
	return certs
}

func (c *CertificationsComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}

	idx := 0
	y := c.areaY
	for line := 0; line < c.grid.NumLines; line++ {
		count := c.grid.ItemsOnLine(line, len(c.logos))
		x := c.areaX + c.grid.PerLineStartX[line]
		for i := 0; i < count && idx < len(c.logos); i++ {
			logo := c.logos[idx]
			w, h := fitWithin(logo.img, c.grid.LogoWidth, c.grid.LogoHeight)
			dc.DrawImageEx(gg.ImageBufFromImage(logo.img), gg.DrawImageOptions{
				X:         x + (c.grid.LogoWidth-w)/2,
				Y:         y + (c.grid.LogoHeight-h)/2,
				DstWidth:  w,
				DstHeight: h,
			})
			x += c.grid.LogoWidth + certSpacing
			idx++
		}
		y += c.grid.LogoHeight + certSpacing
	}

	if c.countFace != nil {
		dc.SetFont(c.countFace)
		dc.SetHexColor(c.textHex)
		label := formatCount(c.total) + " certifications"
		if c.total == 1 {
			label = "1 certification"
		}
		dc.DrawStringAnchored(label, c.areaX, c.areaY-14, 0, 0)
	}
	return nil
}

// fitWithin computes the largest draw size preserving the image aspect
// ratio inside a box.
func fitWithin(img image.Image, boxW, boxH float64) (float64, float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return boxW, boxH
	}
	ratio := float64(bounds.Dx()) / float64(bounds.Dy())
	w, h := boxW, boxW/ratio
	if h > boxH {
		h = boxH
		w = boxH * ratio
	}
	return w, h
}
