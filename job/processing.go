package job

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"

	"appshots/encoder"
	"appshots/models"
	writerbackends "appshots/writerBackends"
)

// SaveOptions controls how an artifact is produced.
type SaveOptions struct {
	Format  string // encoder registry name
	Filter  string
	Quality int
}

// OutputFilename is the rank-derived name of an artifact, e.g. 03-screenshot.png.
func OutputFilename(rank int, ext string) string {
	return fmt.Sprintf("%02d-screenshot.%s", rank, ext)
}

// ResizeAndSaveFile decodes sourcePath and saves one artifact for target.
func ResizeAndSaveFile(ctx context.Context, sourcePath string, target models.TargetSpec, rank int, opts SaveOptions) models.Result {
	img, err := encoder.DecodeFile(sourcePath)
	if err != nil {
		return models.Result{Rank: rank, Source: sourcePath, Target: target.Name, Err: err}
	}
	return ResizeAndSave(ctx, img, sourcePath, target, rank, opts)
}

// ResizeAndSave scales src to exactly target.Width×target.Height, encodes it
// and writes {target.Dir}/{rank:02d}-screenshot.{ext}, replacing any existing
// file. Every failure is returned in the Result rather than as an error.
func ResizeAndSave(ctx context.Context, src image.Image, sourcePath string, target models.TargetSpec, rank int, opts SaveOptions) models.Result {
	res := models.Result{Rank: rank, Source: sourcePath, Target: target.Name}

	enc, ok := encoder.Get(opts.Format)
	if !ok {
		res.Err = fmt.Errorf("encoder %s not found", opts.Format)
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	resized, err := encoder.Resize(src, target.Width, target.Height, opts.Filter)
	if err != nil {
		res.Err = fmt.Errorf("resize to %s: %w", target, err)
		return res
	}

	var buf bytes.Buffer
	eo := encoder.EncodeOptions{Width: target.Width, Height: target.Height, Quality: opts.Quality, Filter: opts.Filter}
	if err := enc.Encode(&buf, resized, eo); err != nil {
		res.Err = fmt.Errorf("encode %s: %w", opts.Format, err)
		return res
	}

	filename := OutputFilename(rank, enc.Ext)
	accessInfo := map[string]string{
		"baseDir":  target.Dir,
		"filename": filename,
	}
	if err := writerbackends.WriteImage(ctx, accessInfo, &buf, writerbackends.Local); err != nil {
		res.Err = err
		return res
	}

	res.Output = filepath.Join(target.Dir, filename)
	return res
}

// processFile decodes one selected source once and saves it for every
// target. A failure for one target does not stop the others.
func processFile(ctx context.Context, rank int, src models.SourceImage, targets []models.TargetSpec, opts SaveOptions) models.FileResult {
	fr := models.FileResult{Rank: rank, Source: src.Path}

	fail := func(err error) models.FileResult {
		fr.DecodeErr = err
		for _, t := range targets {
			fr.Artifacts = append(fr.Artifacts, models.Result{Rank: rank, Source: src.Path, Target: t.Name, Err: err})
		}
		return fr
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	img, err := encoder.DecodeFile(src.Path)
	if err != nil {
		return fail(err)
	}

	for _, t := range targets {
		fr.Artifacts = append(fr.Artifacts, ResizeAndSave(ctx, img, src.Path, t, rank, opts))
	}
	return fr
}
