package util

import (
	"bytes"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const (
	ThumbMaxSize = 480
	AvatarSize   = 256
)

// MakeThumbnail 等比缩放生成 JPEG 缩略图，返回编码后的数据和尺寸
func MakeThumbnail(r io.Reader, maxSize int) (*bytes.Buffer, int, int, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, err
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	buf := &bytes.Buffer{}
	if err = imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, 0, 0, err
	}

	bounds := thumb.Bounds()
	return buf, bounds.Dx(), bounds.Dy(), nil
}

// MakeAvatar 居中裁剪为正方形头像
func MakeAvatar(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	avatar := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	buf := &bytes.Buffer{}
	if err = imaging.Encode(buf, avatar, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf, nil
}

// GetImageDimensions 只解码图片头获取尺寸
func GetImageDimensions(r io.ReadSeeker) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
