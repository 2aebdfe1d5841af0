package database

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/models"
)

// ProjectStore is the project aggregate contract. Both backends expose the
// same operations with the same semantics; callers never know which one they
// are holding.
type ProjectStore interface {
	FindAll() []models.Project
	FindByID(id uint) (*models.Project, error)
	Add(project *models.Project) error
	Update(id uint, patch map[string]any) (*models.Project, error)
	Delete(id uint) error

	AddRoom(projectID uint, name, description string) (*models.Project, error)
	UpdateRoom(projectID, roomID uint, patch map[string]any) (*models.Project, error)
	DeleteRoom(projectID, roomID uint) (*models.Project, error)

	AddTask(projectID uint, input models.TaskInput) (*models.Project, error)
	UpdateTask(projectID, taskID uint, patch map[string]any) (*models.Project, error)
	DeleteTask(projectID, taskID uint) (*models.Project, error)

	AddLog(projectID uint, input models.LogInput) (*models.Project, error)

	ConfigureReports(projectID uint, settings models.ReportSettings) (*models.Project, error)
}

type ClientStore interface {
	FindAll() []models.Client
	FindByID(id uint) (*models.Client, error)
	Add(client *models.Client) error
	Update(client *models.Client) error
	Delete(id uint) error
}

type LeadStore interface {
	FindAll() []models.Lead
	FindByID(id uint) (*models.Lead, error)
	Add(lead *models.Lead) error
	Update(lead *models.Lead) error
	Delete(id uint) error
}

type UserStore interface {
	FindAll() []models.User
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Add(user *models.User) error
	Update(user *models.User) error
	Delete(id uint) error
}

type ProposalStore interface {
	FindAll() []models.Proposal
	FindByID(id uint) (*models.Proposal, error)
	Add(proposal *models.Proposal) error
	Update(proposal *models.Proposal) error
	Delete(id uint) error
}

type MoodboardStore interface {
	FindAll() []models.Moodboard
	FindByID(id uint) (*models.Moodboard, error)
	Add(moodboard *models.Moodboard) error
	Update(moodboard *models.Moodboard) error
	Delete(id uint) error
}

type EstimateStore interface {
	FindAll() []models.Estimate
	FindByID(id uint) (*models.Estimate, error)
	Add(estimate *models.Estimate) error
	Delete(id uint) error
	// FindSimilar returns the stored estimates closest to the given brief
	// embedding, nearest first.
	FindSimilar(embedding pgvector.Vector, limit int) ([]models.Estimate, error)
}

// Database bundles one store per entity behind accessor methods so handlers
// and services depend on the contracts, not on a concrete backend.
type Database struct {
	projectRepo   ProjectStore
	clientRepo    ClientStore
	leadRepo      LeadStore
	userRepo      UserStore
	proposalRepo  ProposalStore
	moodboardRepo MoodboardStore
	estimateRepo  EstimateStore
}

// New wires every store to the given relational connection.
func New(db *gorm.DB) *Database {
	return &Database{
		projectRepo:   NewProjectRepo(db),
		clientRepo:    NewClientRepo(db),
		leadRepo:      NewLeadRepo(db),
		userRepo:      NewUserRepo(db),
		proposalRepo:  NewProposalRepo(db),
		moodboardRepo: NewMoodboardRepo(db),
		estimateRepo:  NewEstimateRepo(db),
	}
}

// NewInMemory wires every store to one process-local memory store. Used for
// demos and tests; state is lost on shutdown.
func NewInMemory() *Database {
	mem := NewMemoryStore()
	return &Database{
		projectRepo:   mem.Projects(),
		clientRepo:    mem.Clients(),
		leadRepo:      mem.Leads(),
		userRepo:      mem.Users(),
		proposalRepo:  mem.Proposals(),
		moodboardRepo: mem.Moodboards(),
		estimateRepo:  mem.Estimates(),
	}
}

func (d *Database) ProjectRepo() ProjectStore {
	return d.projectRepo
}

func (d *Database) ClientRepo() ClientStore {
	return d.clientRepo
}

func (d *Database) LeadRepo() LeadStore {
	return d.leadRepo
}

func (d *Database) UserRepo() UserStore {
	return d.userRepo
}

func (d *Database) ProposalRepo() ProposalStore {
	return d.proposalRepo
}

func (d *Database) MoodboardRepo() MoodboardStore {
	return d.moodboardRepo
}

func (d *Database) EstimateRepo() EstimateStore {
	return d.estimateRepo
}
