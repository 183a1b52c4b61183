package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/model"
)

// sniffLength is the default read limit of mimetype detection.
const sniffLength = 3072

var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, start int) ([]string, error)
}

type ImageDownloader interface {
	Download(ctx context.Context, link string) (io.ReadCloser, error)
}

type RandomImageFetcher interface {
	FetchRandomImage(ctx context.Context, width, height int) (io.ReadCloser, error)
}

type Sniffer interface {
	Detect(head []byte) (mimeType, extension string)
}

type Quota interface {
	TryConsume() bool
}

type PhotoUsecaseDeps struct {
	Searcher      ImageSearcher
	Downloader    ImageDownloader
	RandomFetcher RandomImageFetcher
	Sniffer       Sniffer
	Quota         Quota
	Logger        *slog.Logger
}

// PhotoUsecase collects validated image streams from a search engine or a random image service.
type PhotoUsecase struct {
	PhotoUsecaseDeps
	cfg      config.Photo
	maxStart int
	pageSize int
	intn     func(n int) int
}

func NewPhotoUsecase(cfg config.Photo, searchCfg config.GoogleSearch, deps PhotoUsecaseDeps) *PhotoUsecase {
	return &PhotoUsecase{
		PhotoUsecaseDeps: deps,
		cfg:              cfg,
		maxStart:         searchCfg.MaxStart,
		pageSize:         searchCfg.PageSize,
		intn:             rand.IntN,
	}
}

// Fetch returns exactly count accepted images or an error. Query fetches take one unit of the daily quota
// before any network access. Progress events go to progress, which Fetch closes when it returns; progress
// may be nil. On error every stream already accepted is closed.
func (p *PhotoUsecase) Fetch(
	ctx context.Context, mode model.PhotoMode, count int, progress chan<- model.ProgressEvent,
) ([]model.PhotoResult, error) {
	if progress != nil {
		defer close(progress)
	}
	if count < 1 || count > p.cfg.GroupLimit {
		return nil, model.ErrPhotoCountOutOfRange
	}

	fetcher := photoFetcher{
		PhotoUsecase: p,
		ctx:          ctx,
		count:        count,
		progress:     progress,
		results:      make([]model.PhotoResult, 0, count),
	}

	var err error
	if mode.Random {
		err = fetcher.fetchRandom(mode.Width, mode.Height)
	} else {
		if mode.Query == "" {
			return nil, fmt.Errorf("%w: empty query", model.ErrMalformedRequest)
		}
		if !p.Quota.TryConsume() {
			return nil, model.ErrQuotaExceeded
		}
		err = fetcher.fetchSearch(mode.Query)
	}
	if err != nil {
		if closeErr := model.ClosePhotos(fetcher.results); closeErr != nil {
			p.Logger.Warn("failed to close photo streams", "err", closeErr)
		}
		return nil, err
	}
	return fetcher.results, nil
}

type photoFetcher struct {
	*PhotoUsecase
	ctx      context.Context
	count    int
	progress chan<- model.ProgressEvent
	results  []model.PhotoResult
}

func (f *photoFetcher) fetchSearch(query string) error {
	pagesPerCycle := (f.maxStart + f.pageSize) / f.pageSize
	start := f.intn(f.maxStart) + 1
	fruitlessPages := 0
	for len(f.results) < f.count {
		if err := f.ctx.Err(); err != nil {
			return err
		}
		f.report(model.ProgressBatch)

		links, err := f.Searcher.SearchImages(f.ctx, query, start)
		if err != nil {
			return fmt.Errorf("failed to search images: %w", err)
		}

		links = slices.Clone(links)
		accepted := false
		for len(links) > 0 && len(f.results) < f.count {
			pick := f.intn(len(links))
			link := links[pick]
			links[pick] = links[len(links)-1]
			links = links[:len(links)-1]

			f.report(model.ProgressCandidate)
			body, err := f.Downloader.Download(f.ctx, link)
			if err != nil {
				if ctxErr := f.ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				f.Logger.Debug("image candidate discarded", "link", link, "err", err)
				continue
			}
			if f.accept(body, query, link) {
				accepted = true
			}
		}

		if accepted {
			fruitlessPages = 0
		} else {
			fruitlessPages++
			if fruitlessPages >= pagesPerCycle {
				return fmt.Errorf("%w: no usable image for %q", model.ErrSourceExhausted, query)
			}
		}
		start = nextStart(start, f.pageSize, f.maxStart)
	}
	return nil
}

func (f *photoFetcher) fetchRandom(width, height int) error {
	maxRejections := f.count * f.cfg.RandomAttemptFactor
	if maxRejections < f.count {
		maxRejections = f.count
	}
	rejections := 0
	for len(f.results) < f.count {
		if err := f.ctx.Err(); err != nil {
			return err
		}
		f.report(model.ProgressCandidate)

		body, err := f.RandomFetcher.FetchRandomImage(f.ctx, width, height)
		if err == nil && f.accept(body, "", "random") {
			rejections = 0
			continue
		}
		if err != nil {
			if ctxErr := f.ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			f.Logger.Debug("random image discarded", "width", width, "height", height, "err", err)
		}
		rejections++
		if rejections >= maxRejections {
			return fmt.Errorf("%w: %d random images rejected in a row", model.ErrSourceExhausted, rejections)
		}
	}
	return nil
}

// accept sniffs body and keeps it when the content type is allowed. Rejected bodies are closed.
func (f *photoFetcher) accept(body io.ReadCloser, namePrefix, source string) bool {
	mimeType, extension, content, err := sniffPhoto(body, f.Sniffer)
	if err != nil {
		f.Logger.Debug("image candidate discarded", "source", source, "err", err)
		return false
	}
	f.results = append(
		f.results, model.PhotoResult{
			Name:     namePrefix + strconv.Itoa(len(f.results)) + extension,
			MimeType: mimeType,
			Content:  content,
		},
	)
	f.report(model.ProgressAccepted)
	return true
}

func (f *photoFetcher) report(stage model.ProgressStage) {
	if f.progress == nil {
		return
	}
	event := model.ProgressEvent{
		Stage:     stage,
		Accepted:  len(f.results),
		Requested: f.count,
	}
	select {
	case f.progress <- event:
	case <-f.ctx.Done():
	}
}

type photoContent struct {
	io.Reader
	io.Closer
}

// sniffPhoto peeks at the head of body without consuming it. On success the returned content replays
// the whole body; on failure body is closed.
func sniffPhoto(body io.ReadCloser, sniffer Sniffer) (string, string, io.ReadCloser, error) {
	reader := bufio.NewReaderSize(body, sniffLength)
	head, err := reader.Peek(sniffLength)
	if err != nil && !(errors.Is(err, io.EOF) && len(head) > 0) {
		_ = body.Close()
		return "", "", nil, fmt.Errorf("failed to read image head: %w", err)
	}
	mimeType, extension := sniffer.Detect(head)
	if _, ok := allowedPhotoTypes[mimeType]; !ok {
		_ = body.Close()
		return "", "", nil, fmt.Errorf("%w: %s", model.ErrUnsupportedContent, mimeType)
	}
	return mimeType, extension, photoContent{Reader: reader, Closer: body}, nil
}

// nextStart moves to the following result page, wrapping after maxStart. Offsets are 1-based.
func nextStart(start, pageSize, maxStart int) int {
	start = (start + pageSize) % (maxStart + 1)
	if start == 0 {
		return 1
	}
	return start
}
