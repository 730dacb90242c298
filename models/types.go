package models

import "time"

// Role constants
const (
	RoleConsumer = "CONSUMER"
	RoleExpert   = "EXPERT"
	RoleAdmin    = "ADMIN"
)

// Lifecycle state constants
const (
	StateDraft    = "DRAFT"
	StateActive   = "ACTIVE"
	StateFinished = "FINISHED"
)

// Visibility markers returned alongside product listings
const (
	VisibilityOpen   = "OPEN"
	VisibilityLocked = "LOCKED"
)

// StateOf derives the lifecycle state from the stored flags.
// finished wins over active.
func StateOf(active, finished bool) string {
	switch {
	case finished:
		return StateFinished
	case active:
		return StateActive
	default:
		return StateDraft
	}
}

// Domain types

type NominationGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
	Active   bool   `json:"active"`
	Finished bool   `json:"finished"`
}

type Nomination struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PhotoURL string  `json:"photo_url,omitempty"`
	Active   bool    `json:"active"`
	Finished bool    `json:"finished"`
	GroupID  *string `json:"group_id,omitempty"`
}

type Producer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Director string `json:"director,omitempty"`
}

type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PhotoURL     string  `json:"photo_url,omitempty"`
	ProducerID   string  `json:"producer_id"`
	NominationID *string `json:"nomination_id,omitempty"`
}

type Parameter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NominationID string `json:"nomination_id"`
}

type Disadvantage struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NominationID string `json:"nomination_id"`
}

type Score struct {
	ID        string    `json:"id"`
	Value     int16     `json:"value"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	IsExpert  bool      `json:"is_expert"`
	CreatedAt time.Time `json:"created_at"`
}

type ParameterScore struct {
	ID          string    `json:"id"`
	Value       int16     `json:"value"`
	ProductID   string    `json:"product_id"`
	ParameterID string    `json:"parameter_id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Comment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
}

type User struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Patronymic string `json:"patronymic,omitempty"`
	Gender     int    `json:"gender"`
	Age        int    `json:"age"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// LifecycleStatus is the state of a nomination or group after a transition.
type LifecycleStatus struct {
	ID       string `json:"id"`
	Active   bool   `json:"active"`
	Finished bool   `json:"finished"`
	State    string `json:"state"`
}

// ProductRollup summarizes the scores of one product.
type ProductRollup struct {
	ProductID         string             `json:"product_id"`
	ProductName       string             `json:"product_name"`
	Average           float64            `json:"average"`
	ExpertAverage     float64            `json:"expert_average"`
	ConsumerAverage   float64            `json:"consumer_average"`
	VoteCount         int                `json:"vote_count"`
	ParameterAverages map[string]float64 `json:"parameter_averages"`
}

// Request types

type GroupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

type NominationRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	PhotoURL string  `json:"photo_url" validate:"omitempty,url"`
	GroupID  *string `json:"group_id"`
}

type ProducerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Director string `json:"director" validate:"max=255"`
}

type ProductRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	PhotoURL     string  `json:"photo_url" validate:"omitempty,url"`
	ProducerID   string  `json:"producer_id" validate:"required"`
	NominationID *string `json:"nomination_id"`
}

type ParameterRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	NominationID string `json:"nomination_id" validate:"required"`
}

type DisadvantageRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	NominationID string `json:"nomination_id" validate:"required"`
}

type CommentRequest struct {
	Text      string `json:"text" validate:"required,max=2000"`
	ProductID string `json:"product_id" validate:"required"`
}

type UserRequest struct {
	Role       string `json:"role" validate:"required,oneof=CONSUMER EXPERT ADMIN"`
	Name       string `json:"name" validate:"required,min=1,max=35"`
	Surname    string `json:"surname" validate:"required,min=1,max=35"`
	Patronymic string `json:"patronymic" validate:"omitempty,min=1,max=35"`
	Gender     int    `json:"gender" validate:"min=0,max=2"`
	Age        int    `json:"age" validate:"required,min=1,max=130"`
	Phone      string `json:"phone" validate:"required,max=32"`
	Email      string `json:"email" validate:"required,email"`
}

// ScoreRequest is one overall score. The voter comes from the bearer token.
type ScoreRequest struct {
	ProductID string `json:"product_id"`
	Value     int    `json:"value"`
}

// ParameterScoreRequest is one criterion rating.
type ParameterScoreRequest struct {
	ProductID   string `json:"product_id"`
	ParameterID string `json:"parameter_id"`
	Value       int    `json:"value"`
}

type ScoreBatchRequest struct {
	Scores []ScoreRequest `json:"scores"`
}

type ParameterScoreBatchRequest struct {
	Scores []ParameterScoreRequest `json:"scores"`
}

type CommentBatchRequest struct {
	Comments []CommentRequest `json:"comments"`
}

// Response types

type CreatedResponse struct {
	ID string `json:"id"`
}

type BatchCreatedResponse struct {
	IDs []string `json:"ids"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type AverageResponse struct {
	ProductID  string   `json:"product_id"`
	Visibility string   `json:"visibility"`
	Average    *float64 `json:"average,omitempty"`
}

type ProductScoresResponse struct {
	ProductID  string  `json:"product_id"`
	Visibility string  `json:"visibility"`
	VoteCount  int     `json:"vote_count"`
	Scores     []Score `json:"scores,omitempty"`
}

type VisibilityResponse struct {
	ProductID  string `json:"product_id"`
	Visibility string `json:"visibility"`
}

// NominationProductsResponse is the product listing with the anti-bias marker.
type NominationProductsResponse struct {
	NominationID string    `json:"nomination_id"`
	Visibility   string    `json:"visibility"`
	Products     []Product `json:"products"`
}

type VoterCountResponse struct {
	NominationID string `json:"nomination_id"`
	Voters       int    `json:"voters"`
}

type NominationResultsResponse struct {
	NominationID string          `json:"nomination_id"`
	State        string          `json:"state"`
	Products     []ProductRollup `json:"products"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
