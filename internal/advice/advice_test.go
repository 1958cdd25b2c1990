package advice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/merch"
)

var shirt = domain.Product{ID: "3", Name: "Linen Shirt - White", Category: "Clothing", Supplier: "Natural Fibres", Cost: 15, RRP: 45, Stock: 8, SalesLastMonth: 15}

func TestFriendlyMessage(t *testing.T) {
	assert.Equal(t, "", FriendlyMessage(nil))
	assert.Equal(t, MessageBadKey, FriendlyMessage(ErrMissingAPIKey))
	assert.Equal(t, MessageBadKey, FriendlyMessage(fmt.Errorf("%w: 403", ErrUpstream)))
	assert.Equal(t, MessageEmpty, FriendlyMessage(ErrEmptyResponse))
	assert.Equal(t, MessageNoInternet, FriendlyMessage(context.DeadlineExceeded))
	assert.Equal(t, MessageNoInternet, FriendlyMessage(errors.New("dial tcp: no route to host")))
}

func TestGeminiAdvisorWithoutKey(t *testing.T) {
	a, err := NewGeminiAdvisor(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, a.model)

	_, err = a.GenerateAdvice(context.Background(), "hello", nil, "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSystemPrompt(t *testing.T) {
	prompt, err := SystemPrompt(nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Context Data provided: {}")
	assert.Contains(t, prompt, "British English")
	assert.Contains(t, prompt, "Profit is sanity, turnover is vanity")

	prompt, err = SystemPrompt(shirt)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"name":"Linen Shirt - White"`)

	_, err = SystemPrompt(map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestHealthCheckPrompt(t *testing.T) {
	products := []domain.Product{shirt}
	overview := merch.DefaultCalculator.Overview(products)

	prompt, err := HealthCheckPrompt(overview)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Shop Health Check"`)
	assert.Contains(t, prompt, "Cash tied up in Stock: £120.00")
	assert.Contains(t, prompt, "Recent Sales: £675.00")
	assert.Contains(t, prompt, "Weeks of Stock: 2.1 (Ideal is 10-12)")
	assert.Contains(t, prompt, `"name":"Clothing"`)
}

func TestActionPrompt(t *testing.T) {
	restock := domain.ActionItem{Kind: domain.ActionRestock, Title: "Restock Alert: Linen Shirt - White", Description: "This is a winner!", Product: shirt}
	topic, prompt := ActionPrompt(restock)
	assert.Equal(t, TopicCoaching, topic)
	assert.Contains(t, prompt, `"Restock Alert: Linen Shirt - White"`)
	assert.Contains(t, prompt, "Product Info: Cost £15, Price £45, Stock 8.")
	assert.Contains(t, prompt, "3 simple steps")

	cheap := shirt
	cheap.Cost = 30
	review := domain.ActionItem{Kind: domain.ActionMarginReview, Product: cheap}
	topic, prompt = ActionPrompt(review)
	assert.Equal(t, TopicSupplierEmail, topic)
	assert.Equal(t, "Draft Supplier Email", topic.Title())
	assert.Contains(t, prompt, "my supplier for Natural Fibres")
	assert.Contains(t, prompt, "The margin is too low (20%)")
	assert.Contains(t, prompt, "achieve a 50% margin without raising the RRP")
}

func TestMarketingPrompt(t *testing.T) {
	prompt := MarketingPrompt(domain.Product{Name: "Mystery Box"})
	assert.Contains(t, prompt, "Product: Mystery Box")
	assert.Contains(t, prompt, "Category: Uncategorized")
	assert.Contains(t, prompt, "Instagram Caption")
	assert.Contains(t, prompt, "Shelf Talker")
}
