package media

import (
	"math"
	"strings"
)

// Named rendition widths.
const (
	MediumWidth = 300
	LargeWidth  = 1024
)

// Rendition is one named size of an asset.
type Rendition struct {
	File      string `json:"file"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FileSize  int64  `json:"filesize"`
	MimeType  string `json:"mime_type"`
	SourceURL string `json:"source_url"`
}

// RenditionSizes holds the four named renditions.
type RenditionSizes struct {
	Thumbnail Rendition `json:"thumbnail"`
	Medium    Rendition `json:"medium"`
	Large     Rendition `json:"large"`
	Full      Rendition `json:"full"`
}

// ImageMeta carries descriptive fields in the shape WordPress clients expect.
type ImageMeta struct {
	Aperture         string   `json:"aperture"`
	Credit           string   `json:"credit"`
	Camera           string   `json:"camera"`
	Caption          string   `json:"caption"`
	CreatedTimestamp string   `json:"created_timestamp"`
	Copyright        string   `json:"copyright"`
	FocalLength      string   `json:"focal_length"`
	ISO              string   `json:"iso"`
	ShutterSpeed     string   `json:"shutter_speed"`
	Title            string   `json:"title"`
	Orientation      string   `json:"orientation"`
	Keywords         []string `json:"keywords"`
}

// RenditionSet is the derived multi-size description of an asset. It is never
// authoritative: Describe can rebuild it from the stored record at any time.
type RenditionSet struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	File      string         `json:"file"`
	FileSize  int64          `json:"filesize"`
	MimeType  string         `json:"mime_type"`
	SourceURL string         `json:"source_url"`
	Sizes     RenditionSizes `json:"sizes"`
	ImageMeta ImageMeta      `json:"image_meta"`
}

// DescribeInput is everything Describe needs: primary asset metadata plus
// the original pixel dimensions.
type DescribeInput struct {
	Filename          string
	ThumbnailFilename string
	MimeType          string
	ByteSize          int64
	ThumbnailByteSize int64
	ThumbnailSize     int
	OriginalWidth     int
	OriginalHeight    int
	BaseURL           string
	Title             string
	Caption           string
}

// ScaledHeight returns round((width / originalWidth) * originalHeight).
func ScaledHeight(width, originalWidth, originalHeight int) int {
	if originalWidth <= 0 || originalHeight <= 0 {
		return 0
	}
	return int(math.Round((float64(width) / float64(originalWidth)) * float64(originalHeight)))
}

// ScaledWidth is ScaledHeight with the axes swapped.
func ScaledWidth(height, originalWidth, originalHeight int) int {
	return ScaledHeight(height, originalHeight, originalWidth)
}

// Describe builds the rendition set for an asset.
func Describe(in DescribeInput) RenditionSet {
	base := strings.TrimRight(in.BaseURL, "/")
	imageURL := base + "/images/" + in.Filename
	thumbURL := base + "/thumbnails/" + in.ThumbnailFilename
	thumbSize := in.ThumbnailSize
	if thumbSize <= 0 {
		thumbSize = DefaultThumbnailSize
	}

	primary := func(width, height int) Rendition {
		return Rendition{
			File:      in.Filename,
			Width:     width,
			Height:    height,
			FileSize:  in.ByteSize,
			MimeType:  in.MimeType,
			SourceURL: imageURL,
		}
	}

	return RenditionSet{
		Width:     in.OriginalWidth,
		Height:    in.OriginalHeight,
		File:      in.Filename,
		FileSize:  in.ByteSize,
		MimeType:  in.MimeType,
		SourceURL: imageURL,
		Sizes: RenditionSizes{
			Thumbnail: Rendition{
				File:      in.ThumbnailFilename,
				Width:     thumbSize,
				Height:    thumbSize,
				FileSize:  in.ThumbnailByteSize,
				MimeType:  in.MimeType,
				SourceURL: thumbURL,
			},
			Medium: primary(MediumWidth, ScaledHeight(MediumWidth, in.OriginalWidth, in.OriginalHeight)),
			Large:  primary(LargeWidth, ScaledHeight(LargeWidth, in.OriginalWidth, in.OriginalHeight)),
			Full:   primary(in.OriginalWidth, in.OriginalHeight),
		},
		ImageMeta: ImageMeta{
			Aperture:         "0",
			Caption:          in.Caption,
			CreatedTimestamp: "0",
			FocalLength:      "0",
			ISO:              "0",
			ShutterSpeed:     "0",
			Title:            in.Title,
			Orientation:      "0",
			Keywords:         []string{},
		},
	}
}

// DescribeAsset regenerates the rendition set of a stored asset for baseURL.
func DescribeAsset(a Asset, baseURL string) RenditionSet {
	return Describe(DescribeInput{
		Filename:          a.Filename,
		ThumbnailFilename: a.ThumbnailFilename,
		MimeType:          a.MimeType,
		ByteSize:          a.ByteSize,
		ThumbnailByteSize: a.ThumbnailByteSize,
		ThumbnailSize:     a.ThumbnailSize,
		OriginalWidth:     a.OriginalWidth,
		OriginalHeight:    a.OriginalHeight,
		BaseURL:           baseURL,
		Title:             a.OriginalName,
		Caption:           a.Caption,
	})
}
