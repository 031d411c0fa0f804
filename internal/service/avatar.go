package service

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// avatarSize is the edge length of stored avatar images in pixels.
const avatarSize = 250

// defaultAvatarFile is the asset assigned when a user uploads no file.
const defaultAvatarFile = "default-avatar.jpg"

// gravatarURL derives the deterministic avatar URL for an email address:
// the md5 hex digest of the trimmed, lowercased address.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := md5.Sum([]byte(normalized))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(digest[:])
}

// resizeAvatar decodes the image at src, scales it to a fixed square and
// writes the result to dst. Decode errors are returned unchanged.
func resizeAvatar(src string, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return err
	}
	resized := imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)
	if err := ensureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	return imaging.Save(resized, dst)
}

// ensureDir creates a directory including missing parents.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
