package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/stockroom/internal/advice"
	"github.com/andresuchdata/stockroom/internal/cache"
	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/inventory"
)

const defaultAdviceConcurrency = 4

// AdviceService builds prompts from live shop data and asks the advisor.
// Advisor failures never surface as errors: the caller gets the friendly
// fallback text with Fallback set.
type AdviceService struct {
	advisor     advice.Advisor
	cache       cache.AdviceCache
	dashboard   *DashboardService
	store       *inventory.Store
	concurrency int
	now         func() time.Time
}

func NewAdviceService(advisor advice.Advisor, cacheImpl cache.AdviceCache, dashboard *DashboardService, store *inventory.Store, concurrency int) *AdviceService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAdviceCache()
	}
	if concurrency <= 0 {
		concurrency = defaultAdviceConcurrency
	}
	return &AdviceService{
		advisor:     advisor,
		cache:       cacheImpl,
		dashboard:   dashboard,
		store:       store,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Summary produces the "Shop Health Check" for the current shop.
func (s *AdviceService) Summary(ctx context.Context) (domain.Advice, error) {
	overview := s.dashboard.Overview()

	prompt, err := advice.HealthCheckPrompt(overview)
	if err != nil {
		return domain.Advice{}, err
	}

	return s.generate(ctx, advice.TopicSummary, prompt, overview, ""), nil
}

// CoachAction advises on one action item: a supplier email for margin
// reviews, three coaching steps otherwise.
func (s *AdviceService) CoachAction(ctx context.Context, actionID string) (domain.Advice, error) {
	item, err := s.dashboard.Action(actionID)
	if err != nil {
		return domain.Advice{}, err
	}
	return s.coach(ctx, item), nil
}

// CoachAll advises on every current action item concurrently. Results come
// back in action order.
func (s *AdviceService) CoachAll(ctx context.Context) ([]domain.Advice, error) {
	items := s.dashboard.Actions("")
	results := make([]domain.Advice, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.coach(gctx, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Marketing writes an Instagram caption and a shelf talker for a product.
func (s *AdviceService) Marketing(ctx context.Context, productID string) (domain.Advice, error) {
	p, err := s.store.Get(productID)
	if err != nil {
		return domain.Advice{}, err
	}

	result := s.generate(ctx, advice.TopicMarketing, advice.MarketingPrompt(p), p, "")
	result.ProductID = p.ID
	return result, nil
}

// Chat answers a free question with no shop context attached.
func (s *AdviceService) Chat(ctx context.Context, message string) (domain.Advice, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Advice{}, ErrEmptyMessage
	}
	return s.generate(ctx, advice.TopicChat, message, map[string]interface{}{}, ""), nil
}

// ClearCache drops every cached answer.
func (s *AdviceService) ClearCache(ctx context.Context) (int, error) {
	return s.cache.InvalidateAll(ctx)
}

func (s *AdviceService) coach(ctx context.Context, item domain.ActionItem) domain.Advice {
	topic, prompt := advice.ActionPrompt(item)
	result := s.generate(ctx, topic, prompt, item.Product, "")
	result.ActionID = item.ID
	result.ProductID = item.Product.ID
	return result
}

func (s *AdviceService) generate(ctx context.Context, topic advice.Topic, prompt string, contextData interface{}, systemOverride string) domain.Advice {
	result := domain.Advice{Topic: string(topic), Title: topic.Title()}

	key, err := cache.AdviceKey(string(topic), prompt, systemOverride, contextData)
	if err != nil {
		log.Warn().Err(err).Msg("advice: cache key failed")
	}

	if key != "" {
		if entry, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			result.Text = entry.Text
			result.GeneratedAt = entry.GeneratedAt
			result.Cached = true
			return result
		} else if err != nil {
			log.Warn().Err(err).Msg("advice: cache get failed")
		}
	}

	text, err := s.advisor.GenerateAdvice(ctx, prompt, contextData, systemOverride)
	result.GeneratedAt = s.now().UTC()
	if err != nil {
		log.Warn().Err(err).Str("topic", string(topic)).Msg("advice: generation failed, using fallback")
		result.Text = advice.FriendlyMessage(err)
		result.Fallback = true
		return result
	}
	result.Text = text

	if key != "" {
		entry := cache.AdviceEntry{Topic: string(topic), Text: text, GeneratedAt: result.GeneratedAt}
		if err := s.cache.Set(ctx, key, entry); err != nil {
			log.Warn().Err(err).Msg("advice: cache set failed")
		}
	}

	return result
}
