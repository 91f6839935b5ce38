package mosaic

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// PuzzleHandler is called after a puzzle received on the input topic has
// been solved. Exactly one of res and err is non-nil.
type PuzzleHandler func(name string, res *Result, err error)

// MQTTClient manages the broker connection and the puzzle input subscription
type MQTTClient struct {
	client      mqtt.Client
	config      *Config
	motif       Motif
	handler     PuzzleHandler
	isConnected bool
	mu          sync.RWMutex
}

var (
	globalClient *MQTTClient
	clientMu     sync.Mutex
)

// InitMQTT initializes the global MQTT client. The broker comes from
// MQTT_BROKER or the config; when neither is set MQTT is disabled and
// InitMQTT returns nil, nil.
func InitMQTT(config *Config, handler PuzzleHandler) (*MQTTClient, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil && config.MQTT.Broker != "" {
		broker = config.MQTT.Broker
	}

	if broker == "" {
		log.Println("[MQTT] disabled: MQTT_BROKER not set")
		return nil, nil
	}
	if config == nil {
		config = &Config{}
	}

	m, err := config.GetMotif()
	if err != nil {
		return nil, fmt.Errorf("MQTT motif: %w", err)
	}

	client := &MQTTClient{
		config:  config,
		motif:   m,
		handler: handler,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" && config.MQTT.ClientID != "" {
		clientID = config.MQTT.ClientID
	}
	if clientID == "" {
		clientID = "mosaic"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" && config.MQTT.Username != "" {
		username = config.MQTT.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" && config.MQTT.Password != "" {
			password = config.MQTT.Password
		}
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false) // Keep the input subscription across reconnects
	opts.SetOrderMatters(false)

	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)
	opts.SetReconnectingHandler(client.onReconnecting)

	client.client = mqtt.NewClient(opts)

	go client.connectWithRetry()

	globalClient = client
	return client, nil
}

// GetMQTTClient returns the global MQTT client instance
func GetMQTTClient() *MQTTClient {
	clientMu.Lock()
	defer clientMu.Unlock()
	return globalClient
}

func (c *MQTTClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("[MQTT] Connecting to broker...")

		token := c.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				log.Println("[MQTT] Connected to broker")
				c.setConnected(true)
				return
			}
			log.Printf("[MQTT] Connection failed: %v", token.Error())
		} else {
			log.Println("[MQTT] Connection timeout")
		}

		log.Printf("[MQTT] Retrying connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

func (c *MQTTClient) onConnect(client mqtt.Client) {
	c.setConnected(true)

	topic := c.config.MQTT.InputTopic
	if topic == "" {
		log.Println("[MQTT] connected, no input topic configured (publish only)")
		return
	}

	log.Printf("[MQTT] connected, subscribing to %s", topic)
	token := client.Subscribe(topic, 1, c.createMessageHandler())
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("[MQTT] Error subscribing to %s: %v", topic, token.Error())
		return
	}
	log.Printf("[MQTT] Subscribed to %s", topic)
}

func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] connection interrupted (%v), auto-reconnect will retry", err)
	c.setConnected(false)
}

func (c *MQTTClient) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Println("[MQTT] reconnecting...")
}

// createMessageHandler solves every puzzle published on the input topic
func (c *MQTTClient) createMessageHandler() mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		payload := msg.Payload()
		name := PuzzleNameFromTopic(msg.Topic())
		log.Printf("[MQTT] Received puzzle %s (topic: %s, size: %d bytes)", name, msg.Topic(), len(payload))

		res, err := c.solvePayload(name, payload)
		if err != nil {
			log.Printf("[MQTT] Error solving %s: %v", name, err)
		}
		if c.handler != nil {
			c.handler(name, res, err)
		}
	}
}

func (c *MQTTClient) solvePayload(name string, payload []byte) (*Result, error) {
	tiles, err := ParseTiles(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	res, err := Solve(tiles, c.motif)
	if err != nil {
		return nil, err
	}
	res.Name = name
	return res, nil
}

// PuzzleNameFromTopic uses the last topic level as the puzzle name.
// Example: "mosaic/input/day20" -> "day20"
func PuzzleNameFromTopic(topic string) string {
	topic = strings.TrimRight(topic, "/")
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		topic = topic[i+1:]
	}
	if topic == "" || topic == "+" || topic == "#" {
		return "puzzle"
	}
	return topic
}

// IsConnected returns true if the MQTT client is connected
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *MQTTClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// Disconnect gracefully closes the MQTT connection
func (c *MQTTClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		log.Println("[MQTT] Disconnecting from broker...")
		c.client.Disconnect(250)
		c.setConnected(false)
	}
}

// GetClient returns the underlying MQTT client for publishing
func (c *MQTTClient) GetClient() mqtt.Client {
	return c.client
}

// newMQTTClientWithMock wraps an existing mqtt.Client, for tests.
func newMQTTClientWithMock(client mqtt.Client, config *Config, handler PuzzleHandler) *MQTTClient {
	m, err := config.GetMotif()
	if err != nil {
		m = SeaMonster
	}
	return &MQTTClient{
		client:  client,
		config:  config,
		motif:   m,
		handler: handler,
	}
}
