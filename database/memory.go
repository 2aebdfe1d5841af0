package database

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

// MemoryStore is the in-process backend: plain maps behind one mutex, no
// persistence. It exists so the whole API can run without a database, which
// is how demos and most tests exercise it. Aggregate semantics are identical
// to the relational backend because both delegate to aggregateStore.
type MemoryStore struct {
	mu sync.Mutex

	projects   map[uint]*models.Project
	clients    map[uint]*models.Client
	leads      map[uint]*models.Lead
	users      map[uint]*models.User
	proposals  map[uint]*models.Proposal
	moodboards map[uint]*models.Moodboard
	estimates  map[uint]*models.Estimate

	nextProjectID   uint
	nextClientID    uint
	nextLeadID      uint
	nextUserID      uint
	nextProposalID  uint
	nextMoodboardID uint
	nextEstimateID  uint
}

const (
	seedAdminEmail    = "admin@atelier.local"
	seedAdminPassword = "atelier-admin"
)

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		projects:        make(map[uint]*models.Project),
		clients:         make(map[uint]*models.Client),
		leads:           make(map[uint]*models.Lead),
		users:           make(map[uint]*models.User),
		proposals:       make(map[uint]*models.Proposal),
		moodboards:      make(map[uint]*models.Moodboard),
		estimates:       make(map[uint]*models.Estimate),
		nextProjectID:   1,
		nextClientID:    1,
		nextLeadID:      1,
		nextUserID:      1,
		nextProposalID:  1,
		nextMoodboardID: 1,
		nextEstimateID:  1,
	}
	s.seedAdmin()
	return s
}

// seedAdmin creates a default admin account so a fresh in-memory instance is
// usable without any setup. The password must be changed for anything beyond
// local use.
func (s *MemoryStore) seedAdmin() {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash seed admin password")
		return
	}
	now := time.Now()
	s.users[s.nextUserID] = &models.User{
		ID:           s.nextUserID,
		Name:         "Admin",
		Email:        seedAdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextUserID++
	log.Warn().Str("email", seedAdminEmail).Msg("Seeded default admin account in memory store")
}

// Per-entity views. The store interfaces share method names, so one type
// cannot implement them all; each view borrows the core's lock and maps.

func (s *MemoryStore) Projects() ProjectStore {
	view := &memoryProjects{store: s}
	view.aggregateStore = aggregateStore{src: view}
	return view
}

func (s *MemoryStore) Clients() ClientStore { return &memoryClients{store: s} }

func (s *MemoryStore) Leads() LeadStore { return &memoryLeads{store: s} }

func (s *MemoryStore) Users() UserStore { return &memoryUsers{store: s} }

func (s *MemoryStore) Proposals() ProposalStore { return &memoryProposals{store: s} }

func (s *MemoryStore) Moodboards() MoodboardStore { return &memoryMoodboards{store: s} }

func (s *MemoryStore) Estimates() EstimateStore { return &memoryEstimates{store: s} }

// --- projects ---

type memoryProjects struct {
	aggregateStore
	store *MemoryStore
}

func (m *memoryProjects) FindAll() []models.Project {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	projects := make([]models.Project, 0, len(m.store.projects))
	for _, p := range m.store.projects {
		projects = append(projects, *cloneProject(p))
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects
}

func (m *memoryProjects) FindByID(id uint) (*models.Project, error) {
	return m.loadProject(id)
}

func (m *memoryProjects) Add(project *models.Project) error {
	if project.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	applyProjectDefaults(project)

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	project.ID = m.store.nextProjectID
	m.store.nextProjectID++
	m.store.projects[project.ID] = cloneProject(project)
	return nil
}

func (m *memoryProjects) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.projects[id]; !ok {
		return errs.NewNotFound("project")
	}
	delete(m.store.projects, id)
	return nil
}

// loadProject hands out a deep copy so a failed mutation can never leave the
// stored aggregate half-changed.
func (m *memoryProjects) loadProject(id uint) (*models.Project, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	project, ok := m.store.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	return cloneProject(project), nil
}

func (m *memoryProjects) saveProject(project *models.Project) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.projects[project.ID]; !ok {
		return errs.NewNotFound("project")
	}
	m.store.projects[project.ID] = cloneProject(project)
	return nil
}

func cloneProject(p *models.Project) *models.Project {
	cp := *p
	cp.Rooms = append(models.RoomList{}, p.Rooms...)
	cp.Tasks = append(models.TaskList{}, p.Tasks...)
	cp.Logs = append(models.LogList{}, p.Logs...)
	cp.Photos = append(models.PhotoList{}, p.Photos...)
	if p.ReportSettings != nil {
		cp.ReportSettings = make(models.ReportSettings, len(p.ReportSettings))
		for k, v := range p.ReportSettings {
			cp.ReportSettings[k] = v
		}
	}
	return &cp
}

// --- clients ---

type memoryClients struct {
	store *MemoryStore
}

func (m *memoryClients) FindAll() []models.Client {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	clients := make([]models.Client, 0, len(m.store.clients))
	for _, c := range m.store.clients {
		clients = append(clients, *c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients
}

func (m *memoryClients) FindByID(id uint) (*models.Client, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	client, ok := m.store.clients[id]
	if !ok {
		return nil, errs.NewNotFound("client")
	}
	cp := *client
	return &cp, nil
}

func (m *memoryClients) Add(client *models.Client) error {
	if client.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	now := time.Now()
	client.ID = m.store.nextClientID
	client.CreatedAt = now
	client.UpdatedAt = now
	m.store.nextClientID++
	cp := *client
	m.store.clients[client.ID] = &cp
	return nil
}

func (m *memoryClients) Update(client *models.Client) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.clients[client.ID]; !ok {
		return errs.NewNotFound("client")
	}
	client.UpdatedAt = time.Now()
	cp := *client
	m.store.clients[client.ID] = &cp
	return nil
}

func (m *memoryClients) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.clients[id]; !ok {
		return errs.NewNotFound("client")
	}
	delete(m.store.clients, id)
	return nil
}

// --- leads ---

type memoryLeads struct {
	store *MemoryStore
}

func (m *memoryLeads) FindAll() []models.Lead {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	leads := make([]models.Lead, 0, len(m.store.leads))
	for _, l := range m.store.leads {
		leads = append(leads, *l)
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].CreatedAt.After(leads[j].CreatedAt) })
	return leads
}

func (m *memoryLeads) FindByID(id uint) (*models.Lead, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	lead, ok := m.store.leads[id]
	if !ok {
		return nil, errs.NewNotFound("lead")
	}
	cp := *lead
	return &cp, nil
}

func (m *memoryLeads) Add(lead *models.Lead) error {
	if lead.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if lead.Status == "" {
		lead.Status = models.LeadNew
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	now := time.Now()
	lead.ID = m.store.nextLeadID
	lead.CreatedAt = now
	lead.UpdatedAt = now
	m.store.nextLeadID++
	cp := *lead
	m.store.leads[lead.ID] = &cp
	return nil
}

func (m *memoryLeads) Update(lead *models.Lead) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.leads[lead.ID]; !ok {
		return errs.NewNotFound("lead")
	}
	lead.UpdatedAt = time.Now()
	cp := *lead
	m.store.leads[lead.ID] = &cp
	return nil
}

func (m *memoryLeads) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.leads[id]; !ok {
		return errs.NewNotFound("lead")
	}
	delete(m.store.leads, id)
	return nil
}

// --- users ---

type memoryUsers struct {
	store *MemoryStore
}

func (m *memoryUsers) FindAll() []models.User {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	users := make([]models.User, 0, len(m.store.users))
	for _, u := range m.store.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

func (m *memoryUsers) FindByID(id uint) (*models.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	user, ok := m.store.users[id]
	if !ok {
		return nil, errs.NewNotFound("user")
	}
	cp := *user
	return &cp, nil
}

func (m *memoryUsers) FindByEmail(email string) (*models.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, u := range m.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.NewNotFound("user")
}

func (m *memoryUsers) Add(user *models.User) error {
	if user.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if user.Role == "" {
		user.Role = models.RoleViewer
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, u := range m.store.users {
		if u.Email == user.Email {
			return errs.NewAlreadyExists("user")
		}
	}

	now := time.Now()
	user.ID = m.store.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.store.nextUserID++
	cp := *user
	m.store.users[user.ID] = &cp
	return nil
}

func (m *memoryUsers) Update(user *models.User) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.users[user.ID]; !ok {
		return errs.NewNotFound("user")
	}
	user.UpdatedAt = time.Now()
	cp := *user
	m.store.users[user.ID] = &cp
	return nil
}

func (m *memoryUsers) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.users[id]; !ok {
		return errs.NewNotFound("user")
	}
	delete(m.store.users, id)
	return nil
}

// --- proposals ---

type memoryProposals struct {
	store *MemoryStore
}

func (m *memoryProposals) FindAll() []models.Proposal {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	proposals := make([]models.Proposal, 0, len(m.store.proposals))
	for _, p := range m.store.proposals {
		proposals = append(proposals, *p)
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
	return proposals
}

func (m *memoryProposals) FindByID(id uint) (*models.Proposal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	proposal, ok := m.store.proposals[id]
	if !ok {
		return nil, errs.NewNotFound("proposal")
	}
	cp := *proposal
	return &cp, nil
}

func (m *memoryProposals) Add(proposal *models.Proposal) error {
	if proposal.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if proposal.ClientID == 0 {
		return errs.NewMissingRequiredFieldError("clientId")
	}
	if proposal.Status == "" {
		proposal.Status = models.ProposalDraft
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	now := time.Now()
	proposal.ID = m.store.nextProposalID
	proposal.CreatedAt = now
	proposal.UpdatedAt = now
	m.store.nextProposalID++
	cp := *proposal
	m.store.proposals[proposal.ID] = &cp
	return nil
}

func (m *memoryProposals) Update(proposal *models.Proposal) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.proposals[proposal.ID]; !ok {
		return errs.NewNotFound("proposal")
	}
	proposal.UpdatedAt = time.Now()
	cp := *proposal
	m.store.proposals[proposal.ID] = &cp
	return nil
}

func (m *memoryProposals) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.proposals[id]; !ok {
		return errs.NewNotFound("proposal")
	}
	delete(m.store.proposals, id)
	return nil
}

// --- moodboards ---

type memoryMoodboards struct {
	store *MemoryStore
}

func (m *memoryMoodboards) FindAll() []models.Moodboard {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	moodboards := make([]models.Moodboard, 0, len(m.store.moodboards))
	for _, b := range m.store.moodboards {
		moodboards = append(moodboards, *b)
	}
	sort.Slice(moodboards, func(i, j int) bool {
		return moodboards[i].CreatedAt.After(moodboards[j].CreatedAt)
	})
	return moodboards
}

func (m *memoryMoodboards) FindByID(id uint) (*models.Moodboard, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	moodboard, ok := m.store.moodboards[id]
	if !ok {
		return nil, errs.NewNotFound("moodboard")
	}
	cp := *moodboard
	return &cp, nil
}

func (m *memoryMoodboards) Add(moodboard *models.Moodboard) error {
	if moodboard.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	now := time.Now()
	moodboard.ID = m.store.nextMoodboardID
	moodboard.CreatedAt = now
	moodboard.UpdatedAt = now
	m.store.nextMoodboardID++
	cp := *moodboard
	m.store.moodboards[moodboard.ID] = &cp
	return nil
}

func (m *memoryMoodboards) Update(moodboard *models.Moodboard) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.moodboards[moodboard.ID]; !ok {
		return errs.NewNotFound("moodboard")
	}
	moodboard.UpdatedAt = time.Now()
	cp := *moodboard
	m.store.moodboards[moodboard.ID] = &cp
	return nil
}

func (m *memoryMoodboards) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.moodboards[id]; !ok {
		return errs.NewNotFound("moodboard")
	}
	delete(m.store.moodboards, id)
	return nil
}

// --- estimates ---

type memoryEstimates struct {
	store *MemoryStore
}

func (m *memoryEstimates) FindAll() []models.Estimate {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	estimates := make([]models.Estimate, 0, len(m.store.estimates))
	for _, e := range m.store.estimates {
		estimates = append(estimates, *e)
	}
	sort.Slice(estimates, func(i, j int) bool {
		return estimates[i].CreatedAt.After(estimates[j].CreatedAt)
	})
	return estimates
}

func (m *memoryEstimates) FindByID(id uint) (*models.Estimate, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	estimate, ok := m.store.estimates[id]
	if !ok {
		return nil, errs.NewNotFound("estimate")
	}
	cp := *estimate
	return &cp, nil
}

func (m *memoryEstimates) Add(estimate *models.Estimate) error {
	if estimate.Brief == "" {
		return errs.NewMissingRequiredFieldError("brief")
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	now := time.Now()
	estimate.ID = m.store.nextEstimateID
	estimate.CreatedAt = now
	estimate.UpdatedAt = now
	m.store.nextEstimateID++
	cp := *estimate
	m.store.estimates[estimate.ID] = &cp
	return nil
}

func (m *memoryEstimates) Delete(id uint) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.estimates[id]; !ok {
		return errs.NewNotFound("estimate")
	}
	delete(m.store.estimates, id)
	return nil
}

// FindSimilar brute-forces L2 distance over the stored embeddings. Fine for
// an in-process store; the relational backend pushes this down to pgvector.
func (m *memoryEstimates) FindSimilar(embedding pgvector.Vector, limit int) ([]models.Estimate, error) {
	if limit <= 0 {
		limit = 5
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	query := embedding.Slice()
	type scored struct {
		estimate models.Estimate
		distance float64
	}
	candidates := make([]scored, 0, len(m.store.estimates))
	for _, e := range m.store.estimates {
		stored := e.Embedding.Slice()
		if len(stored) == 0 || len(stored) != len(query) {
			continue
		}
		var sum float64
		for i := range stored {
			d := float64(stored[i]) - float64(query[i])
			sum += d * d
		}
		candidates = append(candidates, scored{estimate: *e, distance: math.Sqrt(sum)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distance < candidates[j].distance })

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	estimates := make([]models.Estimate, 0, len(candidates))
	for _, c := range candidates {
		estimates = append(estimates, c.estimate)
	}
	return estimates, nil
}
