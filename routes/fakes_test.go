package routes

import (
	"context"
	"sort"
	"sync"
	"time"

	"okrtracker/models"
	"okrtracker/store"
	"okrtracker/utils"
)

// memDB is an in-memory stand-in for the gorm stores. It enforces the same
// unique emails, foreign keys and cascades the database schema does.
type memDB struct {
	mu         sync.Mutex
	nextID     uint
	hasher     utils.PasswordHasher
	companies  map[uint]models.Company
	users      map[uint]models.User
	objectives map[uint]models.Objective
	keyResults map[uint]models.KeyResult
}

func newMemDB(hasher utils.PasswordHasher) *memDB {
	return &memDB{
		hasher:     hasher,
		companies:  map[uint]models.Company{},
		users:      map[uint]models.User{},
		objectives: map[uint]models.Objective{},
		keyResults: map[uint]models.KeyResult{},
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *memDB) companyEmailTaken(email string, except uint) bool {
	for _, c := range db.companies {
		if c.Email == email && c.ID != except {
			return true
		}
	}
	return false
}

func (db *memDB) userEmailTaken(email string, except uint) bool {
	for _, u := range db.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (db *memDB) refreshProgress(objectiveID uint) {
	var krs []models.KeyResult
	for _, kr := range db.keyResults {
		if kr.ObjectiveID == objectiveID {
			krs = append(krs, kr)
		}
	}
	if o, ok := db.objectives[objectiveID]; ok {
		o.Progress = models.AggregateProgress(krs)
		db.objectives[objectiveID] = o
	}
}

func (db *memDB) keyResultsOf(objectiveID uint) []models.KeyResult {
	krs := []models.KeyResult{}
	for _, kr := range db.keyResults {
		if kr.ObjectiveID == objectiveID {
			krs = append(krs, kr)
		}
	}
	sort.Slice(krs, func(i, j int) bool { return krs[i].ID < krs[j].ID })
	return krs
}

type memCompanies struct{ db *memDB }

func (s memCompanies) Create(_ context.Context, company *models.Company, password string) error {
	hash, err := s.db.hasher.Hash(password)
	if err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.companyEmailTaken(company.Email, 0) {
		return store.ErrConflict
	}
	company.ID = s.db.id()
	company.PasswordHash = hash
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	s.db.companies[company.ID] = *company
	return nil
}

func (s memCompanies) FindByID(_ context.Context, id uint) (*models.Company, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.companies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s memCompanies) FindByEmail(_ context.Context, email string) (*models.Company, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.companies {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memCompanies) Authenticate(ctx context.Context, email, password string) (*models.Company, error) {
	company, err := s.FindByEmail(ctx, email)
	if err != nil {
		s.db.hasher.CompareDummy(password)
		return nil, store.ErrInvalidCredentials
	}
	ok, err := utils.VerifyPassword(password, company.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrInvalidCredentials
	}
	return company, nil
}

func (s memCompanies) List(_ context.Context, offset, limit int) ([]models.Company, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	all := make([]models.Company, 0, len(s.db.companies))
	for _, c := range s.db.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	count := int64(len(all))
	if offset >= len(all) {
		return []models.Company{}, count, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], count, nil
}

func (s memCompanies) Update(_ context.Context, company *models.Company, password string) error {
	if password != "" {
		hash, err := s.db.hasher.Hash(password)
		if err != nil {
			return err
		}
		company.PasswordHash = hash
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.companies[company.ID]; !ok {
		return store.ErrNotFound
	}
	if s.db.companyEmailTaken(company.Email, company.ID) {
		return store.ErrConflict
	}
	company.UpdatedAt = time.Now()
	s.db.companies[company.ID] = *company
	return nil
}

func (s memCompanies) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.companies[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.companies, id)
	for uid, u := range s.db.users {
		if u.CompanyID == id {
			delete(s.db.users, uid)
		}
	}
	for oid, o := range s.db.objectives {
		if o.CompanyID == id {
			delete(s.db.objectives, oid)
			for kid, kr := range s.db.keyResults {
				if kr.ObjectiveID == oid {
					delete(s.db.keyResults, kid)
				}
			}
		}
	}
	return nil
}

type memUsers struct{ db *memDB }

func (s memUsers) Register(_ context.Context, user *models.User, password string) error {
	hash, err := s.db.hasher.Hash(password)
	if err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.companies[user.CompanyID]; !ok {
		return store.ErrNotFound
	}
	if s.db.userEmailTaken(user.Email, 0) {
		return store.ErrConflict
	}
	user.ID = s.db.id()
	user.PasswordHash = hash
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.db.users[user.ID] = *user
	return nil
}

func (s memUsers) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	s.db.mu.Lock()
	var found *models.User
	for _, u := range s.db.users {
		if u.Email == email {
			u := u
			found = &u
			break
		}
	}
	s.db.mu.Unlock()
	if found == nil {
		s.db.hasher.CompareDummy(password)
		return nil, store.ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, found.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrInvalidCredentials
	}
	return found, nil
}

func (s memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s memUsers) FindInCompany(_ context.Context, companyID, userID uint) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[userID]
	if !ok || u.CompanyID != companyID {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s memUsers) ListByCompany(_ context.Context, companyID uint) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	users := []models.User{}
	for _, u := range s.db.users {
		if u.CompanyID == companyID {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s memUsers) Update(_ context.Context, user *models.User, password string) error {
	if password != "" {
		hash, err := s.db.hasher.Hash(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	if s.db.userEmailTaken(user.Email, user.ID) {
		return store.ErrConflict
	}
	user.UpdatedAt = time.Now()
	s.db.users[user.ID] = *user
	return nil
}

func (s memUsers) Delete(_ context.Context, companyID, userID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[userID]
	if !ok || u.CompanyID != companyID {
		return store.ErrNotFound
	}
	delete(s.db.users, userID)
	return nil
}

type memObjectives struct{ db *memDB }

func (s memObjectives) Create(_ context.Context, objective *models.Objective) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.companies[objective.CompanyID]; !ok {
		return store.ErrNotFound
	}
	objective.ID = s.db.id()
	objective.CreatedAt = time.Now()
	objective.UpdatedAt = objective.CreatedAt
	stored := *objective
	stored.KeyResults = nil
	s.db.objectives[objective.ID] = stored
	return nil
}

func (s memObjectives) List(_ context.Context, companyID uint, status string) ([]models.Objective, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	objectives := []models.Objective{}
	for _, o := range s.db.objectives {
		if o.CompanyID == companyID && (status == "" || o.Status == status) {
			objectives = append(objectives, o)
		}
	}
	sort.Slice(objectives, func(i, j int) bool { return objectives[i].ID < objectives[j].ID })
	return objectives, nil
}

func (s memObjectives) Find(_ context.Context, companyID, objectiveID uint) (*models.Objective, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.objectives[objectiveID]
	if !ok || o.CompanyID != companyID {
		return nil, store.ErrNotFound
	}
	o.KeyResults = s.db.keyResultsOf(objectiveID)
	return &o, nil
}

func (s memObjectives) Update(_ context.Context, objective *models.Objective) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	current, ok := s.db.objectives[objective.ID]
	if !ok || current.CompanyID != objective.CompanyID {
		return store.ErrNotFound
	}
	objective.UpdatedAt = time.Now()
	stored := *objective
	stored.Progress = current.Progress
	stored.CreatedAt = current.CreatedAt
	stored.KeyResults = nil
	s.db.objectives[objective.ID] = stored
	return nil
}

func (s memObjectives) Delete(_ context.Context, companyID, objectiveID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.objectives[objectiveID]
	if !ok || o.CompanyID != companyID {
		return store.ErrNotFound
	}
	delete(s.db.objectives, objectiveID)
	for kid, kr := range s.db.keyResults {
		if kr.ObjectiveID == objectiveID {
			delete(s.db.keyResults, kid)
		}
	}
	return nil
}

type memKeyResults struct{ db *memDB }

func (s memKeyResults) Create(_ context.Context, keyResult *models.KeyResult) error {
	keyResult.RecalculateProgress()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.objectives[keyResult.ObjectiveID]; !ok {
		return store.ErrNotFound
	}
	keyResult.ID = s.db.id()
	keyResult.CreatedAt = time.Now()
	keyResult.UpdatedAt = keyResult.CreatedAt
	s.db.keyResults[keyResult.ID] = *keyResult
	s.db.refreshProgress(keyResult.ObjectiveID)
	return nil
}

func (s memKeyResults) List(_ context.Context, objectiveID uint) ([]models.KeyResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.keyResultsOf(objectiveID), nil
}

func (s memKeyResults) Find(_ context.Context, objectiveID, keyResultID uint) (*models.KeyResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	kr, ok := s.db.keyResults[keyResultID]
	if !ok || kr.ObjectiveID != objectiveID {
		return nil, store.ErrNotFound
	}
	return &kr, nil
}

func (s memKeyResults) Update(_ context.Context, keyResult *models.KeyResult) error {
	keyResult.RecalculateProgress()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	current, ok := s.db.keyResults[keyResult.ID]
	if !ok || current.ObjectiveID != keyResult.ObjectiveID {
		return store.ErrNotFound
	}
	keyResult.UpdatedAt = time.Now()
	s.db.keyResults[keyResult.ID] = *keyResult
	s.db.refreshProgress(keyResult.ObjectiveID)
	return nil
}

func (s memKeyResults) Delete(_ context.Context, objectiveID, keyResultID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	kr, ok := s.db.keyResults[keyResultID]
	if !ok || kr.ObjectiveID != objectiveID {
		return store.ErrNotFound
	}
	delete(s.db.keyResults, keyResultID)
	s.db.refreshProgress(objectiveID)
	return nil
}

// fakeMailer records welcome mails instead of sending them.
type fakeMailer struct {
	sent chan string
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 16)}
}

func (m *fakeMailer) SendWelcome(to, name, company string) error {
	m.sent <- to
	return m.err
}
