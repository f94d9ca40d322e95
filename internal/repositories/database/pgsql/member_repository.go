package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

const memberColumns = `member_id, branch_code, full_name, phone, email, address, joined_on, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.MemberID, &m.BranchCode, &m.FullName, &m.Phone, &m.Email, &m.Address, &m.JoinedOn, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	m, err := scanMember(r.Pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE member_id = $1`, memberID))
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, mapPgError(err))
	}
	return m, nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, filter domain.ListFilter) ([]domain.Member, error) {
	var w whereBuilder
	if filter.BranchCode != nil {
		w.add("branch_code = ?", *filter.BranchCode)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		w.add("(full_name ILIKE ? OR phone ILIKE ?)", p, p)
	}
	query := `SELECT ` + memberColumns + ` FROM members` + w.clause() +
		` ORDER BY full_name, member_id LIMIT ` + w.arg(normaliseLimit(filter.Limit, 20, 200)) + ` OFFSET ` + w.arg(max(filter.Offset, 0))

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", mapPgError(err))
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", mapPgError(err))
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", mapPgError(err))
	}
	return members, nil
}

func (r *PgxMemberRepository) IsMemberEnrolled(ctx context.Context, tx pgx.Tx, memberID, projectID string) (bool, error) {
	var enrolled bool
	query := `SELECT EXISTS (SELECT 1 FROM member_projects WHERE member_id = $1 AND project_id = $2)`
	if err := r.conn(tx).QueryRow(ctx, query, memberID, projectID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", mapPgError(err))
	}
	return enrolled, nil
}

func (r *PgxMemberRepository) ListMemberProjects(ctx context.Context, memberID string) ([]domain.Project, error) {
	query := `
		SELECT ` + prefixColumns("p.", projectColumns) + `
		FROM projects p
		JOIN member_projects mp ON mp.project_id = p.project_id
		WHERE mp.member_id = $1
		ORDER BY mp.enrolled_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member projects: %w", mapPgError(err))
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *PgxMemberRepository) CountMemberContributions(ctx context.Context, tx pgx.Tx, memberID string) (int64, error) {
	var n int64
	if err := r.conn(tx).QueryRow(ctx, `SELECT COUNT(*) FROM contributions WHERE member_id = $1`, memberID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contributions of member %s: %w", memberID, mapPgError(err))
	}
	return n, nil
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, tx pgx.Tx, m domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.conn(tx).Exec(ctx, query, m.MemberID, m.BranchCode, m.FullName, m.Phone, m.Email, m.Address, m.JoinedOn,
		m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save member: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxMemberRepository) UpdateMember(ctx context.Context, tx pgx.Tx, m domain.Member) error {
	query := `
		UPDATE members
		SET full_name = $1, phone = $2, email = $3, address = $4, joined_on = $5, status = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE member_id = $9;
	`
	tag, err := r.conn(tx).Exec(ctx, query, m.FullName, m.Phone, m.Email, m.Address, m.JoinedOn, m.Status,
		m.LastUpdatedAt, m.LastUpdatedBy, m.MemberID)
	if err != nil {
		return fmt.Errorf("failed to update member %s: %w", m.MemberID, mapPgError(err))
	}
	return expectAffected(tag, "member")
}

// DeleteMember removes the member and its enrolments.
func (r *PgxMemberRepository) DeleteMember(ctx context.Context, tx pgx.Tx, memberID string) error {
	tag, err := r.conn(tx).Exec(ctx, `DELETE FROM members WHERE member_id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member %s: %w", memberID, mapPgError(err))
	}
	return expectAffected(tag, "member")
}

func (r *PgxMemberRepository) SaveEnrollment(ctx context.Context, tx pgx.Tx, e domain.Enrollment) error {
	query := `
		INSERT INTO member_projects (member_id, project_id, enrolled_at, enrolled_by)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := r.conn(tx).Exec(ctx, query, e.MemberID, e.ProjectID, e.EnrolledAt, e.EnrolledBy); err != nil {
		return fmt.Errorf("failed to enroll member %s: %w", e.MemberID, mapPgError(err))
	}
	return nil
}
