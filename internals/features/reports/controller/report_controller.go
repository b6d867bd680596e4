package controller

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"counselling_backend/internals/features/reports/service"
	helper "counselling_backend/internals/helpers"
	"counselling_backend/internals/helpers/dbtime"
)

type ReportController struct {
	Reports   *service.ReportService
	Dashboard *service.DashboardService
}

func NewReportController(r *service.ReportService, d *service.DashboardService) *ReportController {
	return &ReportController{Reports: r, Dashboard: d}
}

// dates arrive as YYYY-MM-DD or as a full ISO timestamp from the picker
func parseQueryDate(c *fiber.Ctx, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if d, err := dbtime.ParseDate(raw); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return dbtime.DateOnly(t.In(dbtime.Location())), nil
}

func parseFilter(c *fiber.Ctx) (service.ReportFilter, error) {
	f := service.ReportFilter{
		Type:           strings.TrimSpace(c.Query("reportType")),
		CounselingType: strings.TrimSpace(c.Query("counselingType")),
	}
	var err error
	if f.Start, err = parseQueryDate(c, "startDate"); err != nil {
		return f, err
	}
	if f.End, err = parseQueryDate(c, "endDate"); err != nil {
		return f, err
	}
	if gr := strings.TrimSpace(c.Query("grNumber")); gr != "*" {
		f.GRNumber = gr
	}
	if cs := strings.TrimSpace(c.Query("counsellor")); cs != "" && cs != "*" {
		id, err := uuid.Parse(cs)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "counsellor must be a UUID or *")
		}
		f.CounsellorID = &id
	}
	return f, nil
}

// GET /report?reportType=&startDate=&endDate=&counsellor=&grNumber=&counselingType=&format=csv
func (rc *ReportController) Report(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	tbl, err := rc.Reports.Build(c.UserContext(), f)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		var buf bytes.Buffer
		if err := tbl.WriteCSV(&buf); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to render report")
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-report.csv"`, f.Type))
		return c.Send(buf.Bytes())
	}
	return helper.JsonOK(c, "Excel data created successfully", tbl)
}

// GET /dashboard?searchQuery=&status=&page=&per_page=
func (rc *ReportController) GetDashboard(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 10, 100)
	d, err := rc.Dashboard.Get(c.UserContext(), service.DashboardFilter{
		Search: c.Query("searchQuery"),
		Status: strings.TrimSpace(c.Query("status")),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Dashboard retrieved successfully", d, helper.BuildPaginationFromPage(d.Total, p.Page, p.PerPage))
}
