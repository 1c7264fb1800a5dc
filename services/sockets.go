package services

import (
	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"

	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/realtime"
)

// SocketContext is the per-connection state
type SocketContext struct{}

// SocketsService bridges the realtime hub onto socket.io. Every
// published event is broadcast to the room named after its topic, and
// clients join and leave those rooms with topic.subscribe and
// topic.unsubscribe.
type SocketsService struct {
	Server     *socketio.Server
	Hub        *realtime.Hub
	ChatMirror *ChatMirrorService
	Tally      *TallyService
	Log        *zap.Logger

	firehose *realtime.Subscription
}

func (s *SocketsService) Setup() {

	// Add handlers to the socket server
	s.Server.OnConnect("/", func(conn socketio.Conn) error {
		s.Log.Info("client connected", zap.String("addr", conn.RemoteAddr().String()))
		conn.SetContext(SocketContext{})
		return nil
	})

	// When a socket disconnects
	s.Server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		s.Log.Info("client disconnected",
			zap.String("addr", conn.RemoteAddr().String()),
			zap.String("reason", reason),
		)
		conn.LeaveAll()
	})

	// Register all of the event handlers
	s.Server.OnEvent("/", "topic.subscribe", s.OnTopicSubscribe)
	s.Server.OnEvent("/", "topic.unsubscribe", s.OnTopicUnsubscribe)

	// Bridge every hub event onto its socket.io room
	s.firehose = s.Hub.SubscribeAll()
	go s.bridge()

}

// bridge forwards hub events to socket rooms until the subscription is
// released
func (s *SocketsService) bridge() {
	for evt := range s.firehose.C {
		s.Broadcast(evt.Topic, "topic.event", evt)
	}
}

// Close releases the hub subscription, ending the bridge goroutine
func (s *SocketsService) Close() {
	if s.firehose != nil {
		s.firehose.Close()
	}
}

// Broadcast broadcasts a message to every member of a room
func (s *SocketsService) Broadcast(room, event string, args ...interface{}) bool {
	return s.Server.BroadcastToRoom("/", room, event, args...)
}

//====================================================================================================
// topic.subscribe event handler
// Called when a viewer starts watching a change-feed topic
//====================================================================================================

type TopicSubscribeMsg struct {
	Topic string `json:"topic"`
}

func (s *SocketsService) OnTopicSubscribe(conn socketio.Conn, data TopicSubscribeMsg) error {

	// Only published tables can be watched
	table, parentID, err := realtime.ParseTopic(data.Topic)
	if err != nil {
		return err
	}

	// Join the room for the topic
	conn.Join(data.Topic)

	// Catch the new viewer up on the state they missed
	switch table {

	case realtime.TableChatMessages:

		// Emit the recent messages to the new viewer, so they don't open
		// the page to a completely empty live chat screen
		messages, err := s.ChatMirror.RecentMessages(parentID)
		if err != nil {
			return err
		}
		for _, msg := range messages {
			conn.Emit("topic.event", realtime.Event{
				Topic: data.Topic,
				Table: table,
				Kind:  mirror.Insert,
				Row:   msg,
			})
		}

	case realtime.TableMatchVotes:

		// Emit the current tally so the vote bars render immediately
		counts, err := s.Tally.Tally(parentID)
		if err != nil {
			return err
		}
		conn.Emit("tally.state", map[string]interface{}{
			"match_id": parentID,
			"counts":   counts,
		})

	}

	s.Log.Info("topic subscribed",
		zap.String("topic", data.Topic),
		zap.String("addr", conn.RemoteAddr().String()),
	)

	return nil

}

//====================================================================================================
// topic.unsubscribe event handler
// Called when a viewer stops watching a change-feed topic
//====================================================================================================

type TopicUnsubscribeMsg struct {
	Topic string `json:"topic"`
}

func (s *SocketsService) OnTopicUnsubscribe(conn socketio.Conn, data TopicUnsubscribeMsg) error {

	// Validate the topic so junk strings don't accumulate as rooms
	if _, _, err := realtime.ParseTopic(data.Topic); err != nil {
		return err
	}

	// Leave the room for the topic
	conn.Leave(data.Topic)

	s.Log.Info("topic unsubscribed",
		zap.String("topic", data.Topic),
		zap.String("addr", conn.RemoteAddr().String()),
	)

	return nil

}
