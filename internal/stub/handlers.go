package stub

import (
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
)

// naiveISO is the timestamp format the service emits.
const naiveISO = "2006-01-02T15:04:05.999999"

// FallbackQuotes are served by /motivation.
var FallbackQuotes = []string{
	"Every small step counts! 💪",
	"Progress, not perfection! 🌟",
	"You're stronger than you think! 💪",
	"Today is a new beginning! 🌅",
	"Consistency is the key! 🔑",
	"Believe in yourself! ✨",
	"Small steps, big changes! 🚀",
	"You've got this! 💪",
	"Every day is a fresh start! 🌱",
	"Success starts with action! 🎯",
}

// DefaultReply answers coach messages that match no keyword.
const DefaultReply = "I'm here to help you build better habits! 💪 Start small, be consistent, and celebrate your progress. What specific habit or goal would you like to work on?"

// keywordReplies are checked in order against the lowercased message.
var keywordReplies = []struct {
	keyword string
	reply   string
}{
	{"hello", "Hello! I'm your habit coach. I'm here to help you build better habits and achieve your goals. What would you like to work on today?"},
	{"habit", "Great! Building habits is all about consistency. Start small - even 5 minutes a day can make a big difference. What specific habit would you like to develop?"},
	{"goal", "Setting goals is the first step to success! Make sure your goals are Specific, Measurable, Achievable, Relevant and Time-bound. What goal are you working towards?"},
	{"exercise", "Exercise is fantastic for both physical and mental health! Start with just 10-15 minutes a day. What type of exercise interests you?"},
	{"morning", "A good morning routine sets the tone for the entire day! Try waking up 15 minutes earlier and doing something positive like stretching or journaling. What would you like to include?"},
	{"motivation", "You've got this! Every expert was once a beginner. Progress, not perfection, is the key. What's one small step you can take today?"},
}

// goalBody is a goal as the service serializes it.
type goalBody struct {
	ID            string  `json:"id"`
	Goal          string  `json:"goal"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Priority      string  `json:"priority"`
	TargetDate    *string `json:"target_date"`
	Description   *string `json:"description"`
	Completed     bool    `json:"completed"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	Progress      int     `json:"progress"`
	Streak        int     `json:"streak"`
	LastCompleted *string `json:"last_completed"`
}

func (s *Server) stamp() string {
	return s.now().UTC().Format(naiveISO)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Goal not found"})
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Habit coach stub is running"})
}

func (s *Server) listGoals(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]goalBody, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.goals[id])
	}
	return c.JSON(fiber.Map{"success": true, "goals": out})
}

func (s *Server) createGoal(c *fiber.Ctx) error {
	var req remote.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}
	if strings.TrimSpace(req.Goal) == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "goal is required")
	}
	if req.Category == "" {
		req.Category = models.DefaultCategory
	}
	if req.Priority == "" {
		req.Priority = string(models.Medium)
	}

	var target *string
	if req.TargetDate != nil {
		if t, err := time.Parse(models.DateLayout, *req.TargetDate); err == nil {
			v := t.Format(naiveISO)
			target = &v
		}
	}

	now := s.stamp()
	g := &goalBody{
		ID:          uuid.NewString(),
		Goal:        req.Goal,
		Type:        req.GoalType,
		Category:    req.Category,
		Priority:    req.Priority,
		TargetDate:  target,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	s.order = append(s.order, g.ID)

	return c.JSON(fiber.Map{"success": true, "goal": g})
}

func (s *Server) setCompleted(c *fiber.Ctx) error {
	var req remote.CompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[c.Params("id")]
	if !ok {
		return notFound(c)
	}

	now := s.stamp()
	g.Completed = req.Completed
	g.UpdatedAt = now
	if req.Completed {
		g.Progress = 100
		g.LastCompleted = &now
		if g.Type == string(models.Daily) {
			g.Streak++
		}
	} else {
		g.Progress = 0
	}
	return c.JSON(fiber.Map{"success": true, "goal": g})
}

func (s *Server) setProgress(c *fiber.Ctx) error {
	var req remote.ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[c.Params("id")]
	if !ok {
		return notFound(c)
	}

	now := s.stamp()
	g.Progress = max(0, min(100, req.Progress))
	g.Completed = g.Progress == 100
	g.UpdatedAt = now
	if g.Completed {
		g.LastCompleted = &now
	}
	return c.JSON(fiber.Map{"success": true, "goal": g})
}

func (s *Server) deleteGoal(c *fiber.Ctx) error {
	id := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return notFound(c)
	}
	delete(s.goals, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return c.JSON(fiber.Map{"success": true, "message": "Goal deleted successfully"})
}

func (s *Server) stats(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := remote.StatsResponse{Success: true, TotalGoals: len(s.goals)}
	progress := 0
	for _, g := range s.goals {
		if g.Completed {
			resp.CompletedGoals++
		}
		progress += g.Progress
		resp.TotalStreak += g.Streak
	}
	if resp.TotalGoals > 0 {
		resp.CompletionRate = 100 * float64(resp.CompletedGoals) / float64(resp.TotalGoals)
		resp.AverageProgress = math.Round(10*float64(progress)/float64(resp.TotalGoals)) / 10
	}
	return c.JSON(resp)
}

type categoryCount struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

func (s *Server) categories(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]*categoryCount)
	for _, g := range s.goals {
		cat := g.Category
		if cat == "" {
			cat = models.DefaultCategory
		}
		cc, ok := counts[cat]
		if !ok {
			cc = &categoryCount{}
			counts[cat] = cc
		}
		cc.Total++
		if g.Completed {
			cc.Completed++
		}
	}
	return c.JSON(fiber.Map{"success": true, "categories": counts})
}

func (s *Server) motivation(c *fiber.Ctx) error {
	quote := FallbackQuotes[s.pick(len(FallbackQuotes))]
	return c.JSON(remote.MotivationResponse{Success: true, Quote: quote, Fallback: true})
}

func (s *Server) coach(c *fiber.Ctx) error {
	var req remote.CoachRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}
	return c.JSON(remote.CoachResponse{Success: true, Reply: Reply(req.Message), Fallback: true})
}

// Reply picks the canned answer for a coach message.
func Reply(message string) string {
	msg := strings.ToLower(message)
	for _, kr := range keywordReplies {
		if strings.Contains(msg, kr.keyword) {
			return kr.reply
		}
	}
	return DefaultReply
}
