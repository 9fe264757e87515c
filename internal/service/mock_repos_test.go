package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Bryne19/deanza-course-planner/internal/model"
	"github.com/Bryne19/deanza-course-planner/internal/repository"
)

// ── 内存版 Repository 测试替身 ──────────────────────────────
// 行为与 Postgres 实现对齐：Replace 的替换语义、插入顺序、按会话隔离。
// failWith 非空时所有方法返回该错误，用于验证存储降级路径。
// ─────────────────────────────────────────────────────────────

type mockSectionRepo struct {
	sections []model.Section
	nextPos  int
	failWith error
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{nextPos: 1}
}

func (m *mockSectionRepo) ListBySession(_ context.Context, sessionID string) ([]model.Section, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []model.Section
	for _, s := range m.sections {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSectionRepo) Replace(_ context.Context, section *model.Section) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	replaced := false
	kept := m.sections[:0]
	for _, s := range m.sections {
		if s.SessionID == section.SessionID && s.CRN == section.CRN {
			replaced = true
			continue
		}
		kept = append(kept, s)
	}
	m.sections = kept
	section.Position = m.nextPos
	m.nextPos++
	m.sections = append(m.sections, *section)
	return replaced, nil
}

func (m *mockSectionRepo) Delete(_ context.Context, sessionID, crn string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	removed := false
	kept := m.sections[:0]
	for _, s := range m.sections {
		if s.SessionID == sessionID && s.CRN == crn {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	m.sections = kept
	return removed, nil
}

func (m *mockSectionRepo) Clear(_ context.Context, sessionID string) error {
	if m.failWith != nil {
		return m.failWith
	}
	kept := m.sections[:0]
	for _, s := range m.sections {
		if s.SessionID != sessionID {
			kept = append(kept, s)
		}
	}
	m.sections = kept
	return nil
}

type mockPlannedClassRepo struct {
	classes  []model.PlannedClass
	nextID   int
	failWith error
}

func newMockPlannedClassRepo() *mockPlannedClassRepo {
	return &mockPlannedClassRepo{nextID: 1}
}

func (m *mockPlannedClassRepo) Create(_ context.Context, pc *model.PlannedClass) error {
	if m.failWith != nil {
		return m.failWith
	}
	if pc.PlannedClassID == "" {
		pc.PlannedClassID = fakeUUID(m.nextID)
		m.nextID++
	}
	m.classes = append(m.classes, *pc)
	return nil
}

func (m *mockPlannedClassRepo) ListBySession(_ context.Context, sessionID string) ([]model.PlannedClass, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	// 实际实现按 created_at 倒序；替身按插入倒序等价模拟
	var out []model.PlannedClass
	for i := len(m.classes) - 1; i >= 0; i-- {
		if m.classes[i].SessionID == sessionID {
			out = append(out, m.classes[i])
		}
	}
	return out, nil
}

func (m *mockPlannedClassRepo) GetByID(_ context.Context, sessionID, id string) (*model.PlannedClass, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for i := range m.classes {
		if m.classes[i].SessionID == sessionID && m.classes[i].PlannedClassID == id {
			pc := m.classes[i]
			return &pc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlannedClassRepo) Update(_ context.Context, pc *model.PlannedClass) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.classes {
		if m.classes[i].PlannedClassID == pc.PlannedClassID {
			m.classes[i] = *pc
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPlannedClassRepo) Delete(_ context.Context, sessionID, id string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	kept := m.classes[:0]
	removed := false
	for _, pc := range m.classes {
		if pc.SessionID == sessionID && pc.PlannedClassID == id {
			removed = true
			continue
		}
		kept = append(kept, pc)
	}
	m.classes = kept
	return removed, nil
}

func (m *mockPlannedClassRepo) Clear(_ context.Context, sessionID string) error {
	if m.failWith != nil {
		return m.failWith
	}
	kept := m.classes[:0]
	for _, pc := range m.classes {
		if pc.SessionID != sessionID {
			kept = append(kept, pc)
		}
	}
	m.classes = kept
	return nil
}

func fakeUUID(n int) string {
	const digits = "0123456789abcdef"
	id := []byte("00000000-0000-0000-0000-000000000000")
	for i := len(id) - 1; i >= 0 && n > 0; i-- {
		if id[i] == '-' {
			continue
		}
		id[i] = digits[n%16]
		n /= 16
	}
	return string(id)
}

func newTestRepository(sec *mockSectionRepo, pc *mockPlannedClassRepo) *repository.Repository {
	if sec == nil {
		sec = newMockSectionRepo()
	}
	if pc == nil {
		pc = newMockPlannedClassRepo()
	}
	return &repository.Repository{Section: sec, PlannedClass: pc}
}

var errMockDBDown = errors.New("connection refused")
