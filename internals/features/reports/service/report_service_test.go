package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	"counselling_backend/internals/testutil"
)

type reportFixture struct {
	db         *gorm.DB
	asha, ben  userModel.UserModel
	kiran      formModel.FormModel
	meera      formModel.FormModel
	emptyCase  sessionModel.CaseModel
	marchStart time.Time
	marchEnd   time.Time
}

func addCase(t *testing.T, db *gorm.DB, code string, form formModel.FormModel, status string, created time.Time) sessionModel.CaseModel {
	t.Helper()
	c := sessionModel.CaseModel{CaseCode: code, CaseFormID: form.FormID, CaseStatus: status, CaseCreatedAt: created}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func addSession(t *testing.T, db *gorm.DB, c sessionModel.CaseModel, seq int, counsellor userModel.UserModel, date time.Time, kind, status string) {
	t.Helper()
	s := sessionModel.SessionModel{
		SessionCode:         fmt.Sprintf("%s/SC_%02d", c.CaseCode, seq),
		SessionSeq:          seq,
		SessionCaseID:       c.CaseID,
		SessionFormID:       c.CaseFormID,
		SessionCounsellorID: counsellor.ID,
		SessionDate:         date,
		SessionStartTime:    "09:00",
		SessionEndTime:      "10:00",
		SessionType:         kind,
		SessionDescription:  "intake",
		SessionStatus:       status,
	}
	require.NoError(t, db.Create(&s).Error)
}

func newReportFixture(t *testing.T) *reportFixture {
	db := testutil.NewDB(t)
	f := &reportFixture{
		db:         db,
		asha:       testutil.CreateCounsellor(t, db, "Asha Rao"),
		ben:        testutil.CreateCounsellor(t, db, "Ben Paul"),
		kiran:      testutil.CreateForm(t, db, formModel.RefereeStudent, "Kiran Shah"),
		meera:      testutil.CreateForm(t, db, "parent", "Meera Iyer"),
		marchStart: testutil.Date(2025, 3, 1),
		marchEnd:   testutil.Date(2025, 3, 31),
	}

	c1 := addCase(t, db, "#CS_01", f.kiran, sessionModel.CaseStatusProgress, testutil.Date(2025, 3, 5))
	addSession(t, db, c1, 1, f.asha, testutil.Date(2025, 3, 10), "Academic", sessionModel.SessionStatusCompleted)
	addSession(t, db, c1, 2, f.ben, testutil.Date(2025, 3, 12), "Career", sessionModel.SessionStatusPending)

	c2 := addCase(t, db, "#CS_02", f.meera, sessionModel.CaseStatusPending, testutil.Date(2025, 3, 6))
	addSession(t, db, c2, 1, f.asha, testutil.Date(2025, 3, 11), "Academic", sessionModel.SessionStatusPending)
	addSession(t, db, c2, 2, f.asha, testutil.Date(2025, 4, 1), "Academic", sessionModel.SessionStatusCancelled)

	f.emptyCase = addCase(t, db, "#CS_03", f.meera, sessionModel.CaseStatusPending, testutil.Date(2025, 4, 20))
	return f
}

func (f *reportFixture) filter(kind string) ReportFilter {
	return ReportFilter{Type: kind, Start: f.marchStart, End: f.marchEnd}
}

func TestReportValidation(t *testing.T) {
	f := newReportFixture(t)
	svc := NewReportService(f.db)
	ctx := context.Background()

	_, err := svc.Build(ctx, ReportFilter{Type: "weekly", Start: f.marchStart, End: f.marchEnd})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Build(ctx, ReportFilter{Type: ReportSession})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Build(ctx, ReportFilter{Type: ReportSession, Start: f.marchEnd, End: f.marchStart})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Build(ctx, f.filter(ReportCounselingType))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSessionReport(t *testing.T) {
	f := newReportFixture(t)
	svc := NewReportService(f.db)
	ctx := context.Background()

	tbl, err := svc.Build(ctx, f.filter(ReportSession))
	require.NoError(t, err)
	assert.Equal(t, "Case ID", tbl.Headers[0])
	require.Len(t, tbl.Data, 3)
	first := tbl.Data[0]
	assert.Equal(t, "#CS_01", first["case_id"])
	assert.Equal(t, "#CS_01/SC_01", first["session_id"])
	assert.Equal(t, "Kiran Shah", first["student_name"])
	assert.Equal(t, "Asha Rao", first["counsellor_name"])
	assert.Equal(t, "10-03-2025", first["session_date"])
	assert.Equal(t, "09:00 - 10:00", first["session_time"])
	assert.Equal(t, "#CS_02/SC_01", tbl.Data[1]["session_id"])

	byAsha := f.filter(ReportSession)
	byAsha.CounsellorID = &f.asha.ID
	tbl, err = svc.Build(ctx, byAsha)
	require.NoError(t, err)
	assert.Len(t, tbl.Data, 2)

	byGR := f.filter(ReportSession)
	byGR.GRNumber = f.kiran.FormGRNumber
	tbl, err = svc.Build(ctx, byGR)
	require.NoError(t, err)
	assert.Len(t, tbl.Data, 2)

	career := f.filter(ReportCounselingType)
	career.CounselingType = "Career"
	tbl, err = svc.Build(ctx, career)
	require.NoError(t, err)
	require.Len(t, tbl.Data, 1)
	assert.Equal(t, "Ben Paul", tbl.Data[0]["counsellor_name"])
}

func TestCaseReport(t *testing.T) {
	f := newReportFixture(t)
	svc := NewReportService(f.db)
	ctx := context.Background()

	tbl, err := svc.Build(ctx, f.filter(ReportCase))
	require.NoError(t, err)
	require.Len(t, tbl.Data, 4)
	assert.Equal(t, "#CS_01", tbl.Data[0]["case_id"])
	assert.Equal(t, sessionModel.CaseStatusProgress, tbl.Data[0]["status"])
	assert.Equal(t, "#CS_02/SC_02", tbl.Data[3]["session_id"])

	april := ReportFilter{Type: ReportCase, Start: testutil.Date(2025, 4, 1), End: testutil.Date(2025, 4, 30)}
	tbl, err = svc.Build(ctx, april)
	require.NoError(t, err)
	require.Len(t, tbl.Data, 1)
	assert.Equal(t, "#CS_03", tbl.Data[0]["case_id"])
	assert.Equal(t, notAvailable, tbl.Data[0]["session_id"])
	assert.Equal(t, notAvailable, tbl.Data[0]["counsellor_name"])

	byBen := f.filter(ReportCase)
	byBen.CounsellorID = &f.ben.ID
	tbl, err = svc.Build(ctx, byBen)
	require.NoError(t, err)
	require.Len(t, tbl.Data, 1)
	assert.Equal(t, "#CS_01/SC_02", tbl.Data[0]["session_id"])
}

func TestSessionCountAndConsolidatedReports(t *testing.T) {
	f := newReportFixture(t)
	svc := NewReportService(f.db)
	ctx := context.Background()

	tbl, err := svc.Build(ctx, f.filter(ReportSessionCount))
	require.NoError(t, err)
	require.Len(t, tbl.Data, 3)
	assert.Equal(t, "Asha Rao", tbl.Data[0]["counsellor_name"])
	assert.Equal(t, "parent", tbl.Data[0]["referee"])
	assert.EqualValues(t, 1, tbl.Data[0]["session_count"])
	assert.Equal(t, "Ben Paul", tbl.Data[2]["counsellor_name"])

	tbl, err = svc.Build(ctx, f.filter(ReportConsolidated))
	require.NoError(t, err)
	require.Len(t, tbl.Data, 2)
	asha := tbl.Data[0]
	assert.Equal(t, "Asha Rao", asha["counsellor_name"])
	assert.Equal(t, 2, asha["case_count"])
	assert.Equal(t, 2, asha["session_count"])
	assert.Equal(t, 1, asha["completed"])
	assert.Equal(t, 1, asha["pending"])
	assert.Equal(t, 0, asha["cancelled"])
}

func TestTableCSV(t *testing.T) {
	f := newReportFixture(t)
	tbl, err := NewReportService(f.db).Build(context.Background(), f.filter(ReportSessionCount))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Counsellor Name,Referee,Session Count", lines[0])
	assert.Equal(t, "Asha Rao,parent,1", lines[1])
}

func TestDashboard(t *testing.T) {
	f := newReportFixture(t)
	svc := NewDashboardService(f.db)
	ctx := context.Background()

	d, err := svc.Get(ctx, DashboardFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.CounsellorCount)
	assert.EqualValues(t, 0, d.StudentCount)
	assert.EqualValues(t, 3, d.CaseCount)
	assert.EqualValues(t, 4, d.SessionCount)
	assert.EqualValues(t, 4, d.Total)
	assert.Len(t, d.SessionList, 4)

	d, err = svc.Get(ctx, DashboardFilter{Search: "MEERA"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Total)
	for _, s := range d.SessionList {
		assert.Equal(t, "Meera Iyer", s.UserName)
		assert.Equal(t, "Asha Rao", s.CounsellorName)
	}

	d, err = svc.Get(ctx, DashboardFilter{Status: sessionModel.SessionStatusPending, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Total)
	assert.Len(t, d.SessionList, 1)
	assert.NotEqual(t, uuid.Nil, d.SessionList[0].ID)
}
