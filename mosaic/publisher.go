package mosaic

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ResultSummary is the compact form published on the combined topic.
type ResultSummary struct {
	Name        string `json:"name"`
	Checksum    uint64 `json:"checksum"`
	Roughness   int    `json:"roughness"`
	Occurrences int    `json:"occurrences"`
	SolvedAt    int64  `json:"solvedAt"`
}

// Summarize returns the compact form of a result.
func (r *Result) Summarize() ResultSummary {
	return ResultSummary{
		Name:        r.Name,
		Checksum:    r.Checksum,
		Roughness:   r.Roughness,
		Occurrences: r.Occurrences,
		SolvedAt:    r.SolvedAt,
	}
}

// Publisher publishes solved puzzles to MQTT
type Publisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
	summaries     map[string]ResultSummary
	mu            sync.RWMutex
}

// NewPublisher creates a result publisher. MQTT_PUBLISH_PREFIX overrides
// prefix; an empty prefix falls back to DefaultPublishPrefix.
func NewPublisher(client mqtt.Client, prefix string) *Publisher {
	if env := os.Getenv("MQTT_PUBLISH_PREFIX"); env != "" {
		prefix = env
	}
	if prefix == "" {
		prefix = DefaultPublishPrefix
	}

	return &Publisher{
		client:        client,
		publishPrefix: prefix,
		qos:           1,
		retain:        true, // Late subscribers see the last answer
		summaries:     make(map[string]ResultSummary),
	}
}

// Prefix returns the topic prefix in use
func (p *Publisher) Prefix() string {
	return p.publishPrefix
}

// PublishResult publishes the full result to {prefix}/{name} and the summary
// of every result seen so far to {prefix}/results.
func (p *Publisher) PublishResult(res *Result) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}
	if res == nil || res.Name == "" {
		return fmt.Errorf("result has no name")
	}

	p.mu.Lock()
	p.summaries[res.Name] = res.Summarize()
	p.mu.Unlock()

	if err := p.publishIndividual(res); err != nil {
		log.Printf("[MQTT] Error publishing result for %s: %v", res.Name, err)
		return err
	}

	if err := p.publishCombined(); err != nil {
		log.Printf("[MQTT] Error publishing combined results: %v", err)
		return err
	}

	return nil
}

func (p *Publisher) publishIndividual(res *Result) error {
	topic := fmt.Sprintf("%s/%s", p.publishPrefix, res.Name)

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := p.publish(topic, payload); err != nil {
		return err
	}

	log.Printf("[MQTT] Published %s: checksum=%d roughness=%d", res.Name, res.Checksum, res.Roughness)
	return nil
}

func (p *Publisher) publishCombined() error {
	p.mu.RLock()
	summaries := make([]ResultSummary, 0, len(p.summaries))
	for _, s := range p.summaries {
		summaries = append(summaries, s)
	}
	p.mu.RUnlock()

	if len(summaries) == 0 {
		return nil
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	message := map[string]interface{}{
		"results":   summaries,
		"timestamp": time.Now().Unix(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshaling combined results: %w", err)
	}

	return p.publish(fmt.Sprintf("%s/results", p.publishPrefix), payload)
}

// PublishError reports a failed solve on {prefix}/{name}/error.
func (p *Publisher) PublishError(name string, solveErr error) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}
	payload, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"error":     solveErr.Error(),
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshaling error report: %w", err)
	}
	return p.publish(fmt.Sprintf("%s/%s/error", p.publishPrefix, name), payload)
}

func (p *Publisher) publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// GetSummary returns the last published summary for a puzzle
func (p *Publisher) GetSummary(name string) (ResultSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.summaries[name]
	return s, ok
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2)
func (p *Publisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages should be retained by the broker
func (p *Publisher) SetRetain(retain bool) {
	p.retain = retain
}
