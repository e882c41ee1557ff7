package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tOgg1/riskdesk/internal/models"
)

// CreateTopicInput is the payload for creating a topic.
type CreateTopicInput struct {
	Name       string
	ProfileID  string
	CompanyIDs []string
}

// GetTopic fetches a single topic.
func (c *Client) GetTopic(ctx context.Context, topicID string) (models.Topic, error) {
	path, err := idPath("/teams", topicID, "")
	if err != nil {
		return models.Topic{}, err
	}
	var wire wireTopic
	if err := c.do(ctx, "get topic", http.MethodGet, path, nil, nil, &wire); err != nil {
		return models.Topic{}, err
	}
	topic, err := wire.toModel()
	if err != nil {
		return models.Topic{}, malformed("get topic", err)
	}
	return topic, nil
}

// ListTopics lists topics. topN > 0 caps the result server-side.
func (c *Client) ListTopics(ctx context.Context, topN int) ([]models.Topic, error) {
	var query url.Values
	if topN > 0 {
		query = url.Values{"topN": []string{strconv.Itoa(topN)}}
	}
	var wire []wireTopic
	if err := c.do(ctx, "list topics", http.MethodGet, "/teams", query, nil, &wire); err != nil {
		return nil, err
	}
	return convertList(c.log, "topic", wire, wireTopic.toModel), nil
}

// ListProfileTopics lists the topics owned by a profile.
func (c *Client) ListProfileTopics(ctx context.Context, profileID string) ([]models.Topic, error) {
	path, err := idPath("/profiles", profileID, "/teams")
	if err != nil {
		return nil, err
	}
	var wire []wireTopic
	if err := c.do(ctx, "list profile topics", http.MethodGet, path, nil, nil, &wire); err != nil {
		return nil, err
	}
	return convertList(c.log, "topic", wire, wireTopic.toModel), nil
}

// CreateTopic creates a topic. The name is sent as given.
func (c *Client) CreateTopic(ctx context.Context, input CreateTopicInput) (models.Topic, error) {
	companyIDs := input.CompanyIDs
	if companyIDs == nil {
		companyIDs = []string{}
	}
	req := createTopicRequest{
		Name:       input.Name,
		ProfileID:  input.ProfileID,
		CompanyIDs: companyIDs,
	}
	var wire wireTopic
	if err := c.do(ctx, "create topic", http.MethodPost, "/teams", nil, req, &wire); err != nil {
		return models.Topic{}, err
	}
	topic, err := wire.toModel()
	if err != nil {
		return models.Topic{}, malformed("create topic", err)
	}
	return topic, nil
}

// TopicCompanyNames returns the display names of a topic's companies in server
// order.
func (c *Client) TopicCompanyNames(ctx context.Context, topicID string) ([]string, error) {
	path, err := idPath("/teams", topicID, "/pokemon-names")
	if err != nil {
		return nil, err
	}
	var wire wireCompanyNames
	if err := c.do(ctx, "topic company names", http.MethodGet, path, nil, nil, &wire); err != nil {
		return nil, err
	}
	if wire.Names == nil {
		return []string{}, nil
	}
	return wire.Names, nil
}

// RecordTopicSelection tells the server a visitor picked the topic.
func (c *Client) RecordTopicSelection(ctx context.Context, topicID string) error {
	path, err := idPath("/teams", topicID, "/select")
	if err != nil {
		return err
	}
	return c.do(ctx, "record topic selection", http.MethodPost, path, nil, nil, nil)
}
