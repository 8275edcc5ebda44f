package service

import (
	"context"
	"fmt"

	"github.com/MimeLyc/srtrans/internal/chunk"
	"github.com/MimeLyc/srtrans/internal/config"
	"github.com/MimeLyc/srtrans/internal/subtitle"
	"github.com/MimeLyc/srtrans/internal/translator"
	"github.com/MimeLyc/srtrans/pkg/file"
	"github.com/MimeLyc/srtrans/pkg/log"
)

// FileTranslator runs the pipeline for a single subtitle file:
// read, parse, plan chunks, translate, merge, write the _translated file and
// remove the source.
type FileTranslator struct {
	access     file.Access
	translator translator.Translator
	planner    chunk.Planner
}

func NewFileTranslator(
	access file.Access,
	tr translator.Translator,
	planner chunk.Planner,
) *FileTranslator {
	return &FileTranslator{
		access:     access,
		translator: tr,
		planner:    planner,
	}
}

// TranslateFile translates the file at path. onProgress may be nil.
// On any error the source file is left in place and no further progress is reported.
func (t *FileTranslator) TranslateFile(
	ctx context.Context,
	path string,
	cfg config.JobConfig,
	onProgress FileProgressFunc,
) error {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	report(progressRead)
	content, err := t.access.ReadText(path)
	if err != nil {
		return WrapError(err, ErrFileRead, "failed to read subtitle file").WithContext("path", path)
	}

	report(progressParse)
	doc := subtitle.Parse(content)
	if doc.IsEmpty() {
		return NewError(ErrEmptyDocument, "no subtitle entries found").WithContext("path", path)
	}
	if cfg.SourceLang == translator.AutoDetect {
		log.Debug("Detected source language of %s: %s", path, subtitle.DetectLanguage(doc))
	}

	report(progressPlan)
	parts := t.planner.Plan(doc.Entries)

	report(progressTranslate)
	translated := make([]string, 0, doc.Len())
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return WrapError(err, ErrCanceled, "translation canceled").WithContext("path", path)
		}

		texts, err := t.translator.Translate(ctx, chunk.ExtractTexts(part), cfg.APIKey, cfg.SourceLang, cfg.TargetLang)
		if err != nil {
			if ctx.Err() != nil {
				return WrapError(err, ErrCanceled, fmt.Sprintf("translation canceled during chunk %d/%d", i+1, len(parts))).
					WithContext("path", path)
			}
			return WrapError(err, ErrTranslation, fmt.Sprintf("failed to translate chunk %d/%d", i+1, len(parts))).
				WithContext("path", path)
		}
		// pad or cut so positions keep lining up with the next chunk
		texts = fitLength(texts, len(part))
		translated = append(translated, texts...)

		report(chunkProgress(i, len(parts)))
	}

	merged := &subtitle.Document{Entries: chunk.Merge(doc.Entries, translated)}
	output := subtitle.Serialize(merged)

	outPath := file.TranslatedPath(path)
	report(progressWrite)
	if err := t.access.WriteText(outPath, output); err != nil {
		return WrapError(err, ErrFileWrite, "failed to write translated file").WithContext("path", outPath)
	}

	report(progressDelete)
	if err := t.access.DeleteFile(path); err != nil {
		return WrapError(err, ErrFileDelete, "failed to delete source file").WithContext("path", path)
	}

	report(progressDone)
	log.Info("Translated %s -> %s (%d entries, %d chunks)", path, outPath, doc.Len(), len(parts))
	return nil
}

func fitLength(texts []string, n int) []string {
	if len(texts) == n {
		return texts
	}
	ret := make([]string, n)
	copy(ret, texts)
	return ret
}
