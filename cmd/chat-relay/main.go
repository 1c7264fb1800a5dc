package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The relay mirrors the official Twitch stream chats into the matching
// sport's festival chat, so the on-site crowd and the stream audience
// share one room. It posts through the same public API the app uses.

func main() {

	// Load the .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Error loading .env file: ", err)
	}

	// Create the process logger
	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalln("Failed to create logger: ", err)
	}
	defer logger.Sync()

	apiURL := strings.TrimRight(mustEnv(logger, "FANZONE_API_URL"), "/")
	username := mustEnv(logger, "TWITCH_USERNAME")
	oauth := mustEnv(logger, "TWITCH_OAUTH_TOKEN")
	sports, err := parseChannelSports(mustEnv(logger, "TWITCH_CHANNEL_SPORTS"))
	if err != nil {
		logger.Fatal("invalid TWITCH_CHANNEL_SPORTS", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := &relay{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		sports: sports,
		log:    logger,
	}

	// Wire up the Twitch IRC client
	client := twitch.NewClient(username, oauth)
	client.OnPrivateMessage(func(m twitch.PrivateMessage) {
		r.handleMessage(ctx, m)
	})
	client.OnConnect(func() {
		logger.Info("twitch connected, joining channels",
			zap.Strings("channels", channelNames(sports)),
		)
		for ch := range sports {
			client.Join(ch)
		}
	})
	client.OnReconnectMessage(func(msg twitch.ReconnectMessage) {
		logger.Info("twitch server asked to reconnect")
	})

	// The client reconnects with backoff on its own
	go func() {
		if err := client.Connect(); err != nil {
			logger.Error("twitch connect error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	client.Disconnect()

}

func mustEnv(logger *zap.Logger, key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		logger.Fatal("missing required environment variable", zap.String("key", key))
	}
	return v
}

// relay forwards Twitch chat lines into festival chats over the public
// API
type relay struct {
	apiURL string
	client *http.Client
	sports map[string]uint64
	log    *zap.Logger
}

func (r *relay) handleMessage(ctx context.Context, m twitch.PrivateMessage) {

	// Only channels mapped to a sport are relayed
	sportID, ok := r.sports[normalizeChannel(m.Channel)]
	if !ok {
		return
	}

	text := strings.TrimSpace(m.Message)
	if text == "" {
		return
	}
	username := m.User.DisplayName
	if username == "" {
		username = m.User.Name
	}

	err := r.send(ctx, sportID, relayDeviceID(m.User.Name), username, text)
	if err != nil {
		r.log.Warn("relay send failed",
			zap.String("channel", m.Channel),
			zap.Error(err),
		)
	}

}

// send posts one chat message through the public send route
func (r *relay) send(ctx context.Context, sportID uint64, deviceID, username, message string) error {
	payload, err := json.Marshal(map[string]any{
		"sport_id":  sportID,
		"device_id": deviceID,
		"username":  username,
		"message":   message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"/v1/chat/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Muted chatters and banned words come back as an API error
	if resp.StatusCode != http.StatusOK {
		var parsed struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && len(parsed.Error) > 0 {
			return fmt.Errorf("api rejected message: %s", parsed.Error)
		}
		return fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	return nil
}

// relayDeviceID derives a stable device identity for a Twitch chatter,
// so mutes stick to the same person across messages and sessions
func relayDeviceID(login string) string {
	name := "https://twitch.tv/" + strings.ToLower(strings.TrimSpace(login))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// parseChannelSports parses the "channel=sportID" comma list that maps
// Twitch channels onto festival sports
func parseChannelSports(s string) (map[string]uint64, error) {
	out := map[string]uint64{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		channel, idRaw, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}
		channel = normalizeChannel(channel)
		if channel == "" {
			return nil, fmt.Errorf("empty channel in %q", pair)
		}
		sportID, err := strconv.ParseUint(strings.TrimSpace(idRaw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed sport id in %q", pair)
		}
		out[channel] = sportID
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no channels configured")
	}
	return out, nil
}

func normalizeChannel(ch string) string {
	return strings.TrimPrefix(strings.TrimSpace(ch), "#")
}

func channelNames(sports map[string]uint64) []string {
	names := make([]string, 0, len(sports))
	for ch := range sports {
		names = append(names, ch)
	}
	return names
}
