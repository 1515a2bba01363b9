package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/snonux/vocabdeck/internal"
	"codeberg.org/snonux/vocabdeck/internal/anki"
	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/batch"
	"codeberg.org/snonux/vocabdeck/internal/dictionary"
	"codeberg.org/snonux/vocabdeck/internal/image"
	"codeberg.org/snonux/vocabdeck/internal/lexical"
	"codeberg.org/snonux/vocabdeck/internal/translation"
	"codeberg.org/snonux/vocabdeck/internal/workspace"
)

// DeckFileName is the name of the packaged deck inside a run
const DeckFileName = "flashcards.apkg"

// ErrEmptyInput is returned when the input holds no words
var ErrEmptyInput = errors.New("no words in input")

// ImageFetcher always returns usable image bytes; image.Fetcher implements it
type ImageFetcher interface {
	Fetch(ctx context.Context, word string) image.Result
}

// Options tune the pipeline
type Options struct {
	DeckName    string
	DeckID      int64
	Delay       time.Duration // Pause between words
	StepTimeout time.Duration // Timeout for each external call, 0 disables
	POSLabels   string        // "en" or "vi"
}

// DefaultOptions returns the settings used when nothing is configured
func DefaultOptions() Options {
	return Options{
		DeckName:    anki.DefaultDeckName,
		DeckID:      anki.DefaultDeckID,
		Delay:       200 * time.Millisecond,
		StepTimeout: 10 * time.Second,
		POSLabels:   "en",
	}
}

// Deps are the pipeline stages. Audio may be nil: cards are then built
// without a pronunciation. Translator is the raw provider; each run wraps
// it in its own translation.Service so no cache outlives a run.
type Deps struct {
	Tagger     lexical.Tagger
	Dictionary dictionary.Dictionary
	Translator translation.Translator
	Images     ImageFetcher
	Audio      audio.Provider
	Workspace  *workspace.Workspace
	Logger     *slog.Logger
}

// Processor handles the main word processing logic
type Processor struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a processor from its stages
func New(deps Deps, opts Options) (*Processor, error) {
	switch {
	case deps.Tagger == nil:
		return nil, fmt.Errorf("processor: tagger is required")
	case deps.Dictionary == nil:
		return nil, fmt.Errorf("processor: dictionary is required")
	case deps.Translator == nil:
		return nil, fmt.Errorf("processor: translator is required")
	case deps.Images == nil:
		return nil, fmt.Errorf("processor: image fetcher is required")
	case deps.Workspace == nil:
		return nil, fmt.Errorf("processor: workspace is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		deps:   deps,
		opts:   opts,
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

// Generate parses the submitted text and builds a deck from its words
func (p *Processor) Generate(ctx context.Context, text string) (*Result, error) {
	return p.Process(ctx, batch.ParseWords(text))
}

// Process builds one card per entry and packages them into a new run.
// External failures degrade into fallbacks recorded in the report;
// filesystem and packaging errors abort the run.
func (p *Processor) Process(ctx context.Context, entries []batch.WordEntry) (*Result, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}

	run, err := p.deps.Workspace.NewRun()
	if err != nil {
		return nil, err
	}

	logger := p.logger.With("run_id", run.ID)
	logger.Info("generating deck", "words", len(entries))
	start := time.Now()

	result, err := p.processRun(ctx, run, entries, logger)
	if err != nil {
		if discardErr := run.Discard(); discardErr != nil {
			logger.Warn("failed to discard run", "error", discardErr)
		}
		return nil, err
	}

	logger.Info("deck ready",
		"cards", len(result.Cards),
		"fallbacks", result.FallbackCount(),
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (p *Processor) processRun(ctx context.Context, run *workspace.Run, entries []batch.WordEntry, logger *slog.Logger) (*Result, error) {
	result := &Result{
		RunID: run.ID,
		Dir:   run.Dir,
	}
	names := newNameAllocator()
	translator := translation.NewService(p.deps.Translator)

	for i, entry := range entries {
		if i > 0 {
			if err := p.sleep(ctx, p.opts.Delay); err != nil {
				return nil, err
			}
		}

		logger.Debug("processing word", "index", i+1, "total", len(entries), "word", entry.Word)

		card, report, err := p.processWord(ctx, run, translator, entry, names.allocate(entry.Word))
		if err != nil {
			return nil, fmt.Errorf("word %q: %w", entry.Word, err)
		}
		for _, reason := range report.Fallbacks {
			logger.Warn("fallback used", "word", entry.Word, "reason", reason)
		}

		result.Cards = append(result.Cards, card)
		result.Reports = append(result.Reports, report)
	}

	apkg := anki.NewAPKGGenerator(p.opts.DeckName, p.opts.DeckID)
	for _, card := range result.Cards {
		apkg.AddCard(card)
	}

	result.DeckPath = run.Path(DeckFileName)
	if err := apkg.GenerateAPKG(result.DeckPath); err != nil {
		return nil, fmt.Errorf("failed to package deck: %w", err)
	}
	result.Media = apkg.MediaNames()

	return result, nil
}

// processWord runs tag -> define -> translate -> image -> audio -> assemble
func (p *Processor) processWord(ctx context.Context, run *workspace.Run, translator *translation.Service, entry batch.WordEntry, baseName string) (anki.Card, CardReport, error) {
	word := entry.Word
	report := CardReport{Word: word, Line: entry.Line}

	category := p.deps.Tagger.Tag(word)
	report.POS = category.Label(p.opts.POSLabels)

	def, err := withTimeout(ctx, p.opts.StepTimeout, func(ctx context.Context) (dictionary.Definition, error) {
		return p.deps.Dictionary.Define(ctx, word)
	})
	if err != nil {
		report.addFallback("definition", err)
	}
	report.Definition = def.Gloss
	report.Phonetic = def.Phonetic

	// Words without a sense are translated literally
	source := def.Gloss
	if source == "" {
		source = word
	}
	tr, _ := withTimeout(ctx, p.opts.StepTimeout, func(ctx context.Context) (translation.Result, error) {
		return translator.Translate(ctx, source), nil
	})
	report.Back = tr.Text
	report.TranslationSource = tr.Source
	if tr.Fallback() {
		report.addFallback("translation", tr.Err)
	}

	img, _ := withTimeout(ctx, p.opts.StepTimeout, func(ctx context.Context) (image.Result, error) {
		return p.deps.Images.Fetch(ctx, word), nil
	})
	report.ImageSource = img.Source
	report.ImageTitle = img.Title
	if img.Placeholder() {
		report.addFallback("image", img.Err)
	}

	imageName := baseName + ".jpg"
	imagePath, err := run.WriteFile(imageName, img.Data)
	if err != nil {
		return anki.Card{}, report, err
	}

	audioName, audioPath, err := p.synthesize(ctx, run, word, baseName+".mp3")
	if err != nil {
		report.addFallback("audio", err)
	}
	report.Audio = audioName != ""

	card := anki.Card{
		Front:     anki.BuildFront(word, report.POS, imageName, audioName),
		Back:      tr.Text,
		Word:      word,
		ImageFile: imagePath,
		AudioFile: audioPath,
	}
	report.ImageName = imageName
	report.AudioName = audioName

	return card, report, nil
}

// synthesize writes the pronunciation of word into the run. On failure
// partial output is removed and the names are empty.
func (p *Processor) synthesize(ctx context.Context, run *workspace.Run, word, name string) (string, string, error) {
	if p.deps.Audio == nil {
		return "", "", nil
	}

	path := run.Path(name)
	_, err := withTimeout(ctx, p.opts.StepTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.deps.Audio.GenerateAudio(ctx, word, path)
	})
	if err == nil && !run.Exists(name) {
		err = fmt.Errorf("%s produced no file", p.deps.Audio.Name())
	}
	if err != nil {
		if rmErr := run.Remove(name); rmErr != nil {
			p.logger.Warn("failed to remove partial audio", "file", path, "error", rmErr)
		}
		return "", "", err
	}
	return name, path, nil
}

// ExportCSV writes the cards of a result as a Front/Back CSV file
func (p *Processor) ExportCSV(result *Result, outputPath string) error {
	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     outputPath,
		DeckName:       p.opts.DeckName,
		DeckID:         p.opts.DeckID,
		IncludeHeaders: true,
	})
	for _, card := range result.Cards {
		gen.AddCard(card)
	}
	if err := gen.GenerateCSV(); err != nil {
		return err
	}

	total, withAudio, withImages := gen.Stats()
	p.logger.Info("exported CSV", "path", outputPath,
		"cards", total, "with_audio", withAudio, "with_images", withImages)
	return nil
}

// withTimeout runs fn with a derived context when timeout is positive
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nameAllocator hands out media base names, suffixing safe-name collisions
// with _2, _3 and so on
type nameAllocator struct {
	taken map[string]bool
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{taken: make(map[string]bool)}
}

func (a *nameAllocator) allocate(word string) string {
	base := internal.SafeName(word)
	name := base
	for n := 2; a.taken[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	a.taken[name] = true
	return name
}
