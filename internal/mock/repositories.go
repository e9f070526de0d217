package mock

import (
	"sort"
	"sync"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

// SubscriptionsRepository is an in-memory domain.SubscriptionsRepository.
type SubscriptionsRepository struct {
	mu     sync.Mutex
	items  []domain.Subscription
	nextID int64
	Err    error
	Lists  int
}

func NewSubscriptionsRepository(subs ...domain.Subscription) *SubscriptionsRepository {
	r := &SubscriptionsRepository{}
	for _, s := range subs {
		r.Create(s)
	}
	return r
}

func (r *SubscriptionsRepository) index(email string) int {
	for i, s := range r.items {
		if s.Email == email {
			return i
		}
	}
	return -1
}

func (r *SubscriptionsRepository) Create(s domain.Subscription) (domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return domain.Subscription{}, r.Err
	}
	if r.index(s.Email) >= 0 {
		return domain.Subscription{}, domain.ErrSubscriptionExists
	}
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.items = append(r.items, s)
	return s, nil
}

func (r *SubscriptionsRepository) Update(s domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(s.Email)
	if i < 0 {
		return domain.ErrSubscriptionNotFound
	}
	r.items[i] = s
	return nil
}

func (r *SubscriptionsRepository) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(email)
	if i < 0 {
		return domain.ErrSubscriptionNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *SubscriptionsRepository) GetByEmail(email string) (domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(email); i >= 0 {
		return r.items[i], nil
	}
	return domain.Subscription{}, domain.ErrSubscriptionNotFound
}

func (r *SubscriptionsRepository) List(limit int) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lists++
	if r.Err != nil {
		return nil, r.Err
	}
	if limit > len(r.items) {
		limit = len(r.items)
	}
	return append([]domain.Subscription(nil), r.items[:limit]...), nil
}

func (r *SubscriptionsRepository) Stats() (domain.TierStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := domain.TierStats{ByTier: map[domain.Tier]int{}}
	for _, s := range r.items {
		stats.Total++
		if s.Active() {
			stats.Active++
			stats.ByTier[s.Tier]++
			if s.OptInNewsletter {
				stats.NewsletterOptIn++
			}
		} else {
			stats.Unsubscribed++
		}
	}
	return stats, nil
}

type BookingsRepository struct {
	Bookings []domain.Booking
	Err      error
}

func (r *BookingsRepository) ListByPackage(packageType string, limit int) ([]domain.Booking, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	var res []domain.Booking
	for _, b := range r.Bookings {
		if b.PackageType == packageType && len(res) < limit {
			res = append(res, b)
		}
	}
	return res, nil
}

type JoinersRepository struct {
	mu     sync.Mutex
	items  map[int64]domain.Joiner
	nextID int64
}

func NewJoinersRepository() *JoinersRepository {
	return &JoinersRepository{items: make(map[int64]domain.Joiner)}
}

func (r *JoinersRepository) Create(j domain.Joiner) (domain.Joiner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == j.Email {
			return domain.Joiner{}, domain.ErrJoinerExists
		}
	}
	r.nextID++
	j.ID = r.nextID
	j.CreatedAt = time.Now().UTC()
	j.UpdatedAt = j.CreatedAt
	r.items[j.ID] = j
	return j, nil
}

func (r *JoinersRepository) Update(j domain.Joiner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[j.ID]; !ok {
		return domain.ErrJoinerNotFound
	}
	r.items[j.ID] = j
	return nil
}

func (r *JoinersRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrJoinerNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *JoinersRepository) GetByID(id int64) (domain.Joiner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.items[id]; ok {
		return j, nil
	}
	return domain.Joiner{}, domain.ErrJoinerNotFound
}

func (r *JoinersRepository) GetByEmail(email string) (domain.Joiner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.items {
		if j.Email == email {
			return j, nil
		}
	}
	return domain.Joiner{}, domain.ErrJoinerNotFound
}

func (r *JoinersRepository) List(status domain.JoinerStatus) ([]domain.Joiner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []domain.Joiner{}
	for _, j := range r.items {
		if status == "" || j.Status == status {
			res = append(res, j)
		}
	}
	sort.Slice(res, func(i, k int) bool { return res[i].ID < res[k].ID })
	return res, nil
}

type StatementsRepository struct {
	mu     sync.Mutex
	items  map[int64]domain.PersonalStatement
	nextID int64
}

func NewStatementsRepository() *StatementsRepository {
	return &StatementsRepository{items: make(map[int64]domain.PersonalStatement)}
}

func (r *StatementsRepository) Create(ps domain.PersonalStatement) (domain.PersonalStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ps.ID = r.nextID
	ps.CreatedAt = time.Now().UTC()
	ps.UpdatedAt = ps.CreatedAt
	r.items[ps.ID] = ps
	return ps, nil
}

func (r *StatementsRepository) Update(ps domain.PersonalStatement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ps.ID]; !ok {
		return domain.ErrStatementNotFound
	}
	r.items[ps.ID] = ps
	return nil
}

func (r *StatementsRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrStatementNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *StatementsRepository) GetByID(id int64) (domain.PersonalStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ps, ok := r.items[id]; ok {
		return ps, nil
	}
	return domain.PersonalStatement{}, domain.ErrStatementNotFound
}

func (r *StatementsRepository) List(filter domain.StatementFilter) ([]domain.PersonalStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []domain.PersonalStatement{}
	for _, ps := range r.items {
		if filter.Status != "" && ps.Status != filter.Status {
			continue
		}
		if filter.Email != "" && ps.Email != filter.Email {
			continue
		}
		res = append(res, ps)
	}
	sort.Slice(res, func(i, k int) bool { return res[i].ID < res[k].ID })
	return res, nil
}

type StudentsRepository struct {
	mu           sync.Mutex
	Users        []domain.User
	Bookings     []domain.Booking
	InterviewSet []domain.Interview
	Slots        map[int64][]domain.AvailabilitySlot
	nextSlotID   int64
}

func NewStudentsRepository() *StudentsRepository {
	return &StudentsRepository{Slots: make(map[int64][]domain.AvailabilitySlot)}
}

func (r *StudentsRepository) GetUserByEmail(email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *StudentsRepository) GetBookings(userID int64, email string) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []domain.Booking{}
	for _, b := range r.Bookings {
		if (b.UserID != nil && *b.UserID == userID) || b.Email == email {
			res = append(res, b)
		}
	}
	return res, nil
}

func (r *StudentsRepository) filterInterviews(match func(domain.Interview) bool) []domain.Interview {
	res := []domain.Interview{}
	for _, i := range r.InterviewSet {
		if match(i) {
			res = append(res, i)
		}
	}
	return res
}

func (r *StudentsRepository) GetStudentInterviews(studentID int64) ([]domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterInterviews(func(i domain.Interview) bool { return i.StudentID == studentID }), nil
}

func (r *StudentsRepository) GetTutorInterviews(tutorID int64) ([]domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterInterviews(func(i domain.Interview) bool { return i.TutorID != nil && *i.TutorID == tutorID }), nil
}

func (r *StudentsRepository) GetInterview(id int64) (domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.InterviewSet {
		if i.ID == id {
			return i, nil
		}
	}
	return domain.Interview{}, domain.ErrInterviewNotFound
}

func (r *StudentsRepository) UpdateInterview(i domain.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.InterviewSet {
		if r.InterviewSet[k].ID == i.ID {
			r.InterviewSet[k] = i
			return nil
		}
	}
	return domain.ErrInterviewNotFound
}

func (r *StudentsRepository) GetAvailability(studentID int64) ([]domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AvailabilitySlot{}, r.Slots[studentID]...), nil
}

func (r *StudentsRepository) ReplaceAvailability(studentID int64, slots []domain.AvailabilitySlot) ([]domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]domain.AvailabilitySlot, len(slots))
	for i, s := range slots {
		r.nextSlotID++
		s.ID = r.nextSlotID
		s.StudentID = studentID
		saved[i] = s
	}
	r.Slots[studentID] = saved
	return saved, nil
}

type SessionsRepository struct {
	mu    sync.Mutex
	items map[string]domain.InterviewSession
}

func NewSessionsRepository() *SessionsRepository {
	return &SessionsRepository{items: make(map[string]domain.InterviewSession)}
}

func (r *SessionsRepository) Create(s domain.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; ok {
		return domain.ErrConflict
	}
	r.items[s.ID] = s
	return nil
}

func (r *SessionsRepository) GetByID(id string) (domain.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok {
		return s, nil
	}
	return domain.InterviewSession{}, domain.ErrSessionNotFound
}

type ResourcesRepository struct {
	mu        sync.Mutex
	Resources []domain.Resource
	UpdateErr error
}

func (r *ResourcesRepository) List() ([]domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Resource(nil), r.Resources...), nil
}

func (r *ResourcesRepository) UpdateSignedURL(id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	for i := range r.Resources {
		if r.Resources[i].ID == id {
			r.Resources[i].SignedURL = url
			return nil
		}
	}
	return domain.ErrNotFound
}

type EmailLogRepository struct {
	mu      sync.Mutex
	Entries []domain.EmailLog
	Err     error
}

func (r *EmailLogRepository) Insert(entry domain.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Entries = append(r.Entries, entry)
	return nil
}
