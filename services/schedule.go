package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/mirror"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
)

// SportView is the shape of a sport in responses
type SportView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

// NewSportView serializes a sport
func NewSportView(sport *models.Sport) SportView {
	return SportView{
		ID:   sport.ID,
		Name: sport.Name,
		Slug: sport.Slug,
		Icon: sport.Icon,
	}
}

// TeamView is the shape of a team in responses
type TeamView struct {
	ID      uint64 `json:"id"`
	SportID uint64 `json:"sport_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Crest   string `json:"crest"`
}

// NewTeamView serializes a team
func NewTeamView(team *models.Team) TeamView {
	return TeamView{
		ID:      team.ID,
		SportID: team.SportID,
		Name:    team.Name,
		Color:   team.Color,
		Crest:   team.Crest,
	}
}

// MatchView is the shape of a match in responses and events
type MatchView struct {
	ID        uint64    `json:"id"`
	SportID   uint64    `json:"sport_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Status    string    `json:"status"`
	Venue     string    `json:"venue"`
	StartsAt  time.Time `json:"starts_at"`
}

// NewMatchView serializes a match
func NewMatchView(match *models.Match) MatchView {
	return MatchView{
		ID:        match.ID,
		SportID:   match.SportID,
		HomeTeam:  match.HomeTeam,
		AwayTeam:  match.AwayTeam,
		HomeScore: match.HomeScore,
		AwayScore: match.AwayScore,
		Status:    match.Status,
		Venue:     match.Venue,
		StartsAt:  match.StartsAt,
	}
}

// MatchUpdate carries the fields a studio update may change. Nil fields
// are left alone.
type MatchUpdate struct {
	HomeScore *int
	AwayScore *int
	Status    *string
	Venue     *string
	StartsAt  *time.Time
}

// TeamStanding is one row of a sport's standings table
type TeamStanding struct {
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Points       int    `json:"points"`
}

// ScheduleService manages the festival's sports, matches and standings
type ScheduleService struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// GetSports gets all of the festival's sports
func (s *ScheduleService) GetSports() ([]*models.Sport, error) {
	var sports []*models.Sport
	err := s.DB.
		Where("deleted_date IS NULL").
		Order("name ASC").
		Find(&sports).
		Error
	if err != nil {
		return nil, err
	}
	return sports, nil
}

// GetSportBySlug gets the sport with the provided slug
func (s *ScheduleService) GetSportBySlug(slug string) (*models.Sport, error) {
	var sport models.Sport
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("slug = ?", slug).
		First(&sport).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sport, nil
}

// GetSportByID gets the sport with the provided identifier
func (s *ScheduleService) GetSportByID(sportID uint64) (*models.Sport, error) {
	var sport models.Sport
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", sportID).
		First(&sport).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sport, nil
}

// GetMatches gets a sport's matches in kick-off order
func (s *ScheduleService) GetMatches(sportID uint64) ([]*models.Match, error) {
	var matches []*models.Match
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("sport_id = ?", sportID).
		Order("starts_at ASC").
		Order("id ASC").
		Find(&matches).
		Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetAllMatches gets every sport's matches in kick-off order
func (s *ScheduleService) GetAllMatches() ([]*models.Match, error) {
	var matches []*models.Match
	err := s.DB.
		Where("deleted_date IS NULL").
		Order("starts_at ASC").
		Order("id ASC").
		Find(&matches).
		Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetMatchByID gets the match with the provided identifier
func (s *ScheduleService) GetMatchByID(matchID uint64) (*models.Match, error) {
	var match models.Match
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", matchID).
		First(&match).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

// GetTeams gets a sport's teams
func (s *ScheduleService) GetTeams(sportID uint64) ([]*models.Team, error) {
	var teams []*models.Team
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("sport_id = ?", sportID).
		Order("name ASC").
		Find(&teams).
		Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateMatch schedules a new fixture and publishes its insert event
func (s *ScheduleService) CreateMatch(
	sportID uint64,
	homeTeam string,
	awayTeam string,
	venue string,
	startsAt time.Time,
) (*models.Match, error) {

	if len(homeTeam) == 0 || len(awayTeam) == 0 {
		return nil, errors.New("both team names are required")
	}
	if homeTeam == awayTeam {
		return nil, errors.New("a team cannot play itself")
	}

	match := models.Match{
		SportID:     sportID,
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		Status:      models.MatchStatusScheduled,
		Venue:       venue,
		StartsAt:    startsAt,
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(&match).Error; err != nil {
		return nil, err
	}
	s.publishMatch(mirror.Insert, &match)
	return &match, nil

}

// UpdateMatch applies a studio edit to a match and publishes its update
// event
func (s *ScheduleService) UpdateMatch(match *models.Match, update MatchUpdate) (*models.Match, error) {

	// Collect the changed columns
	changes := map[string]interface{}{}
	if update.HomeScore != nil {
		match.HomeScore = *update.HomeScore
		changes["home_score"] = match.HomeScore
	}
	if update.AwayScore != nil {
		match.AwayScore = *update.AwayScore
		changes["away_score"] = match.AwayScore
	}
	if update.Status != nil {
		switch *update.Status {
		case models.MatchStatusScheduled, models.MatchStatusLive, models.MatchStatusFinished:
		default:
			return nil, errors.New("unknown match status")
		}
		match.Status = *update.Status
		changes["status"] = match.Status
	}
	if update.Venue != nil {
		match.Venue = *update.Venue
		changes["venue"] = match.Venue
	}
	if update.StartsAt != nil {
		match.StartsAt = *update.StartsAt
		changes["starts_at"] = match.StartsAt
	}
	if len(changes) == 0 {
		return match, nil
	}

	err := s.DB.
		Model(&models.Match{}).
		Where("id = ?", match.ID).
		Updates(changes).
		Error
	if err != nil {
		return nil, err
	}
	s.publishMatch(mirror.Update, match)
	return match, nil

}

// Standings computes a sport's standings table from its finished matches
func (s *ScheduleService) Standings(sportID uint64) ([]TeamStanding, error) {
	matches, err := s.GetMatches(sportID)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(matches), nil
}

// ComputeStandings derives a standings table from match results. Only
// finished matches count: three points for a win, one for a draw. The
// table is rederived from the matches on every call, so there is no
// stored copy to fall out of sync.
func ComputeStandings(matches []*models.Match) []TeamStanding {

	rows := map[string]*TeamStanding{}
	rowFor := func(team string) *TeamStanding {
		row, ok := rows[team]
		if !ok {
			row = &TeamStanding{Team: team}
			rows[team] = row
		}
		return row
	}

	for _, match := range matches {
		if match.Status != models.MatchStatusFinished {
			continue
		}
		home := rowFor(match.HomeTeam)
		away := rowFor(match.AwayTeam)

		home.Played++
		away.Played++
		home.GoalsFor += match.HomeScore
		home.GoalsAgainst += match.AwayScore
		away.GoalsFor += match.AwayScore
		away.GoalsAgainst += match.HomeScore

		switch {
		case match.HomeScore > match.AwayScore:
			home.Wins++
			home.Points += 3
			away.Losses++
		case match.HomeScore < match.AwayScore:
			away.Wins++
			away.Points += 3
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	standings := make([]TeamStanding, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, *row)
	}

	// Points, then goal difference, then goals scored, then name so ties
	// order deterministically
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		diffA := a.GoalsFor - a.GoalsAgainst
		diffB := b.GoalsFor - b.GoalsAgainst
		if diffA != diffB {
			return diffA > diffB
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})
	return standings

}

// publishMatch fans a match change out to the sport's topic
func (s *ScheduleService) publishMatch(kind mirror.Kind, match *models.Match) {
	s.Hub.Publish(realtime.Event{
		Topic: realtime.Topic(realtime.TableMatches, match.SportID),
		Table: realtime.TableMatches,
		Kind:  kind,
		Row:   NewMatchView(match),
	})
}
