package enrichment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/metrics"
	"github.com/jonathan/creator-pitch/internal/store"
	"github.com/jonathan/creator-pitch/internal/types"
)

// Tier names the source that answered a trigger.
type Tier string

const (
	TierProvider Tier = "provider"
	TierLLM      Tier = "llm"
	TierFallback Tier = "fallback"
)

// Mode says whether the result is inline or must be polled for.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// Input is one enrichment request. Handle may still carry an "@" or be a
// profile URL.
type Input struct {
	Handle           string
	NicheDescription string
}

// Outcome is the answer of the tier that handled a request. Result is set
// for sync outcomes; RequestID is set whenever the provider was called.
type Outcome struct {
	Tier      Tier
	Mode      Mode
	RequestID string
	Result    *types.EnrichmentResult
}

// BrandDiscoverer guesses a creator profile and brand matches from a handle.
type BrandDiscoverer interface {
	DiscoverBrands(ctx context.Context, handle string) (types.EnrichmentResult, error)
}

// tier is one step of the cascade. ok=false passes the request on.
type tier interface {
	name() Tier
	try(ctx context.Context, handle string, in Input) (Outcome, bool)
}

// Options configures a Trigger. Provider and Discoverer are optional; a nil
// value skips that tier.
type Options struct {
	Store      store.Store
	Provider   *Provider
	Discoverer BrandDiscoverer
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	// NewID generates request ids. Defaults to UUIDv4.
	NewID func() string
}

// Trigger runs the provider, discovery and fallback tiers in order.
type Trigger struct {
	store   store.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
	tiers   []tier
}

// NewTrigger builds the tier chain from opts.
func NewTrigger(opts Options) *Trigger {
	logger := logging.OrNop(opts.Logger)
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	t := &Trigger{store: opts.Store, logger: logger, metrics: opts.Metrics}
	if opts.Provider != nil && opts.Store != nil {
		t.tiers = append(t.tiers, &providerTier{provider: opts.Provider, store: opts.Store, newID: newID, logger: logger})
	}
	if opts.Discoverer != nil {
		t.tiers = append(t.tiers, &discoveryTier{discoverer: opts.Discoverer, logger: logger, metrics: opts.Metrics})
	}
	t.tiers = append(t.tiers, fallbackTier{})
	return t
}

// Run sanitizes the handle and walks the chain until a tier answers. The
// fallback tier always answers, so an error means ctx ended first.
func (t *Trigger) Run(ctx context.Context, in Input) (Outcome, error) {
	t.sweep(ctx)

	handle := SanitizeHandle(in.Handle)
	for _, tr := range t.tiers {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		out, ok := tr.try(ctx, handle, in)
		if !ok {
			t.logger.Debug("tier passed", zap.String("tier", string(tr.name())), zap.String("handle", handle))
			continue
		}
		t.logger.Info("enrichment answered",
			zap.String("handle", handle),
			zap.String("tier", string(out.Tier)),
			zap.String("mode", string(out.Mode)),
			zap.String("request_id", out.RequestID),
		)
		t.metrics.ObserveEnrichment(string(out.Tier), string(out.Mode))
		t.recordSize(ctx)
		return out, nil
	}
	return Outcome{}, errors.New("no enrichment tier answered")
}

func (t *Trigger) sweep(ctx context.Context) {
	if t.store == nil {
		return
	}
	removed, err := t.store.Sweep(ctx)
	if err != nil {
		t.logger.Warn("store sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		t.logger.Debug("swept expired requests", zap.Int("removed", removed))
	}
}

func (t *Trigger) recordSize(ctx context.Context) {
	if t.store == nil || t.metrics == nil {
		return
	}
	if n, err := t.store.Len(ctx); err == nil {
		t.metrics.SetStoreEntries(n)
	}
}

type providerTier struct {
	provider *Provider
	store    store.Store
	newID    func() string
	logger   *zap.Logger
}

func (p *providerTier) name() Tier { return TierProvider }

func (p *providerTier) try(ctx context.Context, handle string, in Input) (Outcome, bool) {
	requestID := p.newID()
	if err := p.store.CreatePending(ctx, requestID); err != nil {
		p.logger.Warn("could not register pending request", zap.String("request_id", requestID), zap.Error(err))
		return Outcome{}, false
	}

	resp, err := p.provider.Submit(ctx, ProviderRequest{
		RequestID:        requestID,
		TikTokHandle:     handle,
		TikTokURL:        ProfileURL(handle),
		NicheDescription: in.NicheDescription,
		CallbackURL:      p.provider.CallbackURL(),
	})
	if err != nil {
		p.logger.Warn("provider call failed, falling back",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		if derr := p.store.Delete(ctx, requestID); derr != nil {
			p.logger.Warn("could not drop pending request", zap.String("request_id", requestID), zap.Error(derr))
		}
		return Outcome{}, false
	}

	if result, ok := resp.InlineResult(handle); ok {
		if err := p.store.Complete(ctx, requestID, result); err != nil {
			p.logger.Warn("could not store inline result", zap.String("request_id", requestID), zap.Error(err))
		}
		return Outcome{Tier: TierProvider, Mode: ModeSync, RequestID: requestID, Result: &result}, true
	}
	return Outcome{Tier: TierProvider, Mode: ModeAsync, RequestID: requestID}, true
}

type discoveryTier struct {
	discoverer BrandDiscoverer
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func (d *discoveryTier) name() Tier { return TierLLM }

func (d *discoveryTier) try(ctx context.Context, handle string, _ Input) (Outcome, bool) {
	result, err := d.discoverer.DiscoverBrands(ctx, handle)
	d.metrics.ObserveLLM("discover", err)
	if err != nil {
		d.logger.Warn("brand discovery failed, using built-in dataset", zap.String("handle", handle), zap.Error(err))
		return Outcome{}, false
	}
	if len(result.Brands) == 0 {
		d.logger.Warn("brand discovery returned no brands, using built-in dataset", zap.String("handle", handle))
		return Outcome{}, false
	}
	return Outcome{Tier: TierLLM, Mode: ModeSync, Result: &result}, true
}

type fallbackTier struct{}

func (fallbackTier) name() Tier { return TierFallback }

func (fallbackTier) try(_ context.Context, handle string, _ Input) (Outcome, bool) {
	result := FallbackResult(handle)
	return Outcome{Tier: TierFallback, Mode: ModeSync, Result: &result}, true
}
