package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// DashboardSvcFacade builds the per-principal dashboard views.
type DashboardSvcFacade interface {
	AdminDashboard(ctx context.Context, actor domain.Principal, filter domain.DashboardFilter) (*domain.AdminDashboard, error)
	CompanyDashboard(ctx context.Context, actor domain.Principal, filter domain.DashboardFilter) (*domain.CompanyDashboard, error)
	EmployeeDashboard(ctx context.Context, actor domain.Principal) (*domain.EmployeeDashboard, error)
}

// BackfillSvc runs the one-time data hygiene migration.
type BackfillSvc interface {
	Run(ctx context.Context, dryRun bool) (*domain.BackfillReport, error)
}
