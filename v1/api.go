package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
	"github.com/campusgames/fanzone-api/v1/hooks"
	"github.com/campusgames/fanzone-api/v1/middleware"
)

// Server is the API server instance
type Server struct {
	AccountsService   *services.AccountsService
	AuthTokensService *services.AuthTokensService
	ChatService       *services.ChatService
	ScheduleService   *services.ScheduleService
	StreamsService    *services.StreamsService
	VotesService      *services.VotesService
	TallyService      *services.TallyService
}

// Setup mounts the API server to the given group
func (s *Server) Setup(g *gin.RouterGroup) {

	// Register middleware for all routes
	g.Use(middleware.CheckAuth(s.AuthTokensService))

	// Register all of the public hooks that require no authentication
	s.setupPublicHooks(g)

	// Register authenticated hooks
	s.setupAuthenticatedHooks(g)

}

// setupPublicHooks mounts API hooks that are publicly accessible
func (s *Server) setupPublicHooks(g *gin.RouterGroup) {

	// Register public API routes
	g.POST("/app/get-state", hooks.AppState(
		s.ScheduleService,
		s.StreamsService,
	))
	g.POST("/schedule/list", hooks.ScheduleList(s.ScheduleService))
	g.POST("/schedule/standings", hooks.ScheduleStandings(s.ScheduleService))
	g.POST("/streams/list", hooks.StreamsList(
		s.ScheduleService,
		s.StreamsService,
	))
	g.POST("/chat/history", hooks.ChatHistory(s.ChatService))
	g.POST("/chat/send", hooks.ChatSend(
		s.ScheduleService,
		s.ChatService,
	))
	g.POST("/chat/react", hooks.ChatReact(s.ChatService))
	g.POST("/chat/reactions", hooks.ChatReactions(s.ChatService))
	g.POST("/votes/cast", hooks.VotesCast(
		s.ScheduleService,
		s.VotesService,
	))
	g.POST("/votes/list", hooks.VotesList(s.VotesService))
	g.POST("/votes/tally", hooks.VotesTally(s.TallyService))
	g.POST("/auth/login", hooks.AuthLogin(
		s.AccountsService,
		s.AuthTokensService,
	))

}

// setupAuthenticatedHooks mounts API hooks that require account authentication
func (s *Server) setupAuthenticatedHooks(g *gin.RouterGroup) {

	// Require login for everything after this
	g.Use(middleware.RequireLogin())

	// Register authenticated API routes
	g.POST("/auth/whoami", hooks.AuthWhoAmI(
		s.AuthTokensService,
	))
	g.POST("/studio/chat/mute", hooks.StudioChatMute(s.ChatService))
	g.POST("/studio/chat/unmute", hooks.StudioChatUnmute(s.ChatService))
	g.POST("/studio/chat/delete-message", hooks.StudioChatDeleteMessage(s.ChatService))
	g.POST("/studio/chat/banned-words/add", hooks.StudioChatBannedWordsAdd(s.ChatService))
	g.POST("/studio/chat/banned-words/list", hooks.StudioChatBannedWordsList(s.ChatService))
	g.POST("/studio/matches/create", hooks.StudioMatchesCreate(s.ScheduleService))
	g.POST("/studio/matches/update", hooks.StudioMatchesUpdate(s.ScheduleService))
	g.POST("/studio/streams/upsert", hooks.StudioStreamsUpsert(
		s.ScheduleService,
		s.StreamsService,
	))

}
