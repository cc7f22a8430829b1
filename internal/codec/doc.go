// Package codec decodes source photographs and encodes resized variants in
// the modern (WebP) and legacy (JPEG) formats.
package codec
