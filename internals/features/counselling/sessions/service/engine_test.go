package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"counselling_backend/internals/constants"
	formModel "counselling_backend/internals/features/counselling/forms/model"
	"counselling_backend/internals/features/counselling/sessions/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/testutil"
)

type fixture struct {
	db         *gorm.DB
	rec        *notifService.Recorder
	engine     *Engine
	counsellor userModel.UserModel
	other      userModel.UserModel
	form       formModel.FormModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := notifService.NewRecorder()
	return &fixture{
		db:         db,
		rec:        rec,
		engine:     NewEngine(db, rec),
		counsellor: testutil.CreateCounsellor(t, db, "Asha Rao"),
		other:      testutil.CreateCounsellor(t, db, "Vikram Shah"),
		form:       testutil.CreateForm(t, db, formModel.RefereeStudent, "Riya Patel"),
	}
}

func actorOf(u userModel.UserModel) helperAuth.ActingUser {
	return helperAuth.ActingUser{ID: u.ID, Role: string(u.UserType), Name: u.Name}
}

func (f *fixture) create(t *testing.T, formID uuid.UUID) *model.SessionModel {
	t.Helper()
	s, err := f.engine.CreateSession(context.Background(), helperAuth.Anonymous, CreateSessionInput{
		FormID:       formID,
		Date:         testutil.Date(2025, time.March, 10),
		Start:        "09:00",
		End:          "10:00",
		Type:         "Academic",
		CounsellorID: f.counsellor.ID,
		Description:  "struggling with exams",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) (model.SessionModel, model.CaseModel) {
	t.Helper()
	var s model.SessionModel
	require.NoError(t, f.db.Where("session_id = ?", id).Take(&s).Error)
	var c model.CaseModel
	require.NoError(t, f.db.Where("case_id = ?", s.SessionCaseID).Take(&c).Error)
	return s, c
}

func nextDay() *time.Time {
	d := testutil.Date(2025, time.March, 17)
	return &d
}

func TestCreateSessionNumbersCasesSequentially(t *testing.T) {
	f := newFixture(t)

	for i, want := range []string{"#CS_01", "#CS_02", "#CS_03"} {
		form := testutil.CreateForm(t, f.db, formModel.RefereeStudent, "Student "+string(rune('A'+i)))
		s := f.create(t, form.FormID)

		_, c := f.reload(t, s.SessionID)
		assert.Equal(t, want, c.CaseCode)
		assert.Equal(t, want+"/SC_01", s.SessionCode)
		assert.Equal(t, 1, s.SessionSeq)
		assert.Equal(t, model.SessionStatusPending, s.SessionStatus)
		assert.Equal(t, model.CaseStatusPending, c.CaseStatus)
		assert.Equal(t, c.CaseID, s.SessionCaseID)
	}
}

func TestCreateSessionPublishesRequestMails(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)

	env, ok := f.rec.Last()
	require.True(t, ok)
	assert.Equal(t, EventSessionCreated, env.Event)
	require.Len(t, env.Mails, 2)
	assert.Equal(t, []string{f.form.FormEmail}, env.Mails[0].To)
	assert.Contains(t, env.Mails[0].Subject, s.SessionCode)
	assert.Contains(t, env.Mails[0].Text, "10-03-2025 at 09:00-10:00")
	assert.Equal(t, []string{f.counsellor.Email}, env.Mails[1].To)
	require.Len(t, env.Notices, 1)
	assert.Equal(t, f.counsellor.ID, env.Notices[0].UserID)
	assert.Equal(t, "New session requested", env.Notices[0].Details)
}

func TestCreateSessionParentRequestMentionsReferee(t *testing.T) {
	f := newFixture(t)
	form := testutil.CreateForm(t, f.db, formModel.RefereeParent, "Kabir Das")
	f.create(t, form.FormID)

	env, _ := f.rec.Last()
	assert.Equal(t, "Dear parent,\n\nYour appointment request for Kabir Das has been sent to the Counselor for approval.", env.Mails[0].Text)
}

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := CreateSessionInput{
		FormID:       f.form.FormID,
		Date:         testutil.Date(2025, time.March, 10),
		Start:        "09:00",
		End:          "10:00",
		Type:         "Academic",
		CounsellorID: f.counsellor.ID,
	}

	cases := []struct {
		name string
		mut  func(in *CreateSessionInput)
		kind apperr.Kind
	}{
		{"missing form", func(in *CreateSessionInput) { in.FormID = uuid.Nil }, apperr.KindValidation},
		{"missing date", func(in *CreateSessionInput) { in.Date = time.Time{} }, apperr.KindValidation},
		{"bad clock", func(in *CreateSessionInput) { in.Start = "9am" }, apperr.KindValidation},
		{"inverted window", func(in *CreateSessionInput) { in.Start, in.End = "11:00", "10:00" }, apperr.KindValidation},
		{"missing type", func(in *CreateSessionInput) { in.Type = " " }, apperr.KindValidation},
		{"unknown form", func(in *CreateSessionInput) { in.FormID = uuid.New() }, apperr.KindNotFound},
		{"unknown counsellor", func(in *CreateSessionInput) { in.CounsellorID = uuid.New() }, apperr.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mut(&in)
			_, err := f.engine.CreateSession(ctx, helperAuth.Anonymous, in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	var caseCount, sessions int64
	f.db.Model(&model.CaseModel{}).Count(&caseCount)
	f.db.Model(&model.SessionModel{}).Count(&sessions)
	assert.Zero(t, caseCount)
	assert.Zero(t, sessions)
	assert.Empty(t, f.rec.Envelopes())
}

func TestAcceptSessionTwiceStaysInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	f.rec.Reset()

	for i := 0; i < 2; i++ {
		got, err := f.engine.AcceptSession(ctx, actorOf(f.counsellor), s.SessionID)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusProgress, got.SessionStatus)
	}

	sess, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusProgress, sess.SessionStatus)
	assert.Equal(t, model.CaseStatusProgress, kase.CaseStatus)
	assert.Equal(t, []string{EventSessionAccepted, EventSessionAccepted}, f.rec.Events())
}

func TestAcceptSessionMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.AcceptSession(context.Background(), actorOf(f.counsellor), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRescheduleGuard(t *testing.T) {
	cases := []struct {
		from string
		ok   bool
	}{
		{model.SessionStatusPending, true},
		{model.SessionStatusRescheduled, true},
		{model.SessionStatusProgress, false},
		{model.SessionStatusCompleted, false},
		{model.SessionStatusCancelled, false},
	}
	for _, tc := range cases {
		t.Run(tc.from, func(t *testing.T) {
			f := newFixture(t)
			s := f.create(t, f.form.FormID)
			require.NoError(t, f.db.Model(&model.SessionModel{}).
				Where("session_id = ?", s.SessionID).
				Update("session_status", tc.from).Error)

			_, err := f.engine.RescheduleSession(context.Background(), actorOf(f.counsellor), s.SessionID, RescheduleInput{
				Date:   testutil.Date(2025, time.March, 12),
				Start:  "11:00",
				End:    "12:00",
				Remark: "clash with exam",
			})

			got, _ := f.reload(t, s.SessionID)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, model.SessionStatusProgress, got.SessionStatus)
				assert.Equal(t, "2025-03-12", got.SessionDate.Format("2006-01-02"))
				assert.Equal(t, "11:00", got.SessionStartTime)
				assert.Equal(t, "clash with exam", got.SessionCRescheduleRemark)
				assert.Empty(t, got.SessionRescheduleRemark)
				return
			}
			assert.True(t, apperr.Is(err, apperr.KindInvalidState))
			assert.Equal(t, tc.from, got.SessionStatus)
			assert.Equal(t, "2025-03-10", got.SessionDate.Format("2006-01-02"))
			assert.Equal(t, "09:00", got.SessionStartTime)
		})
	}
}

func TestRescheduleRequiresDateAndTime(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)
	_, err := f.engine.RescheduleSession(context.Background(), helperAuth.Anonymous, s.SessionID, RescheduleInput{Start: "10:00", End: "11:00"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCancelSessionCascadesToCase(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)
	student := helperAuth.ActingUser{ID: uuid.New(), Role: constants.RoleStudent}

	require.NoError(t, f.engine.CancelSession(context.Background(), student, s.SessionID, "feeling better"))

	sess, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusCancelled, sess.SessionStatus)
	assert.Equal(t, "feeling better", sess.SessionCancelRemark)
	assert.Equal(t, model.CaseStatusCancelled, kase.CaseStatus)

	env, _ := f.rec.Last()
	assert.Equal(t, EventSessionCancelled, env.Event)
	assert.Contains(t, env.Mails[0].Text, "Reason: feeling better")
}

func TestCloseFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	_, err := f.engine.AcceptSession(ctx, actorOf(f.counsellor), s.SessionID)
	require.NoError(t, err)

	notes := "discussed study plan"
	res, err := f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID:        s.SessionID,
		Close:            true,
		ReasonForClosing: "resolved",
		CaseDetails:      &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, EntryClose, res.Kind)
	assert.Nil(t, res.NewSession)

	sess, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusCompleted, sess.SessionStatus)
	assert.Equal(t, notes, sess.SessionCaseDetails)
	assert.Equal(t, model.CaseStatusCompleted, kase.CaseStatus)
	assert.Equal(t, "resolved", kase.CaseReasonForClosing)
}

func TestCloseNeedsReason(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)
	_, err := f.engine.AddEntry(context.Background(), actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID: s.SessionID,
		Close:     true,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	sess, _ := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusPending, sess.SessionStatus)
}

func TestCloseTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	req := EntryRequest{SessionID: s.SessionID, Close: true, ReasonForClosing: "resolved"}

	_, err := f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, req)
	require.NoError(t, err)
	_, err = f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, req)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestReferWithSessionFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	f.rec.Reset()

	res, err := f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID:   s.SessionID,
		Refer:       &f.other.ID,
		WithSession: true,
		Date:        nextDay(),
		Start:       "10:00",
		End:         "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, EntryReferWithSession, res.Kind)

	orig, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusCompleted, orig.SessionStatus)
	assert.Equal(t, model.CaseStatusReferred, kase.CaseStatus)

	require.NotNil(t, res.NewSession)
	next, _ := f.reload(t, res.NewSession.SessionID)
	assert.Equal(t, kase.CaseID, next.SessionCaseID)
	assert.Equal(t, "#CS_01/SC_02", next.SessionCode)
	assert.Equal(t, f.other.ID, next.SessionCounsellorID)
	assert.Equal(t, model.SessionStatusPending, next.SessionStatus)
	assert.Equal(t, orig.SessionType, next.SessionType)
	assert.Equal(t, orig.SessionDescription, next.SessionDescription)

	env, _ := f.rec.Last()
	assert.Equal(t, EventCaseReferred, env.Event)
	assert.Equal(t, []string{f.other.Email}, env.Mails[1].To)

	view, err := f.engine.GetCase(ctx, helperAuth.ActingUser{ID: uuid.New(), Role: constants.RoleAdmin}, kase.CaseID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.SessionID, next.SessionID}, view.SessionIDs())
}

func TestReferWithSessionUnknownCounsellor(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)
	missing := uuid.New()

	_, err := f.engine.AddEntry(context.Background(), actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID:   s.SessionID,
		Refer:       &missing,
		WithSession: true,
		Date:        nextDay(),
		Start:       "10:00",
		End:         "11:00",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	orig, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusPending, orig.SessionStatus)
	assert.Equal(t, model.CaseStatusPending, kase.CaseStatus)
	assert.Equal(t, 1, kase.CaseSessionSeq)
}

func TestReferForFeedbackAppendsWithoutScheduling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	_, err := f.engine.AcceptSession(ctx, actorOf(f.counsellor), s.SessionID)
	require.NoError(t, err)

	notes := "needs class teacher input"
	for i := 0; i < 2; i++ {
		res, err := f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
			SessionID:    s.SessionID,
			Refer:        &f.other.ID,
			Interactions: &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, EntryReferFeedback, res.Kind)
		assert.Nil(t, res.NewSession)
	}

	sess, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusProgress, sess.SessionStatus)
	assert.Equal(t, model.CaseStatusProgress, kase.CaseStatus)
	assert.Equal(t, notes, sess.SessionInteractions)

	var sessions int64
	f.db.Model(&model.SessionModel{}).Where("session_case_id = ?", kase.CaseID).Count(&sessions)
	assert.EqualValues(t, 1, sessions)

	view, err := f.engine.GetCase(ctx, actorOf(f.counsellor), kase.CaseID)
	require.NoError(t, err)
	require.Len(t, view.Referrals, 2)
	assert.Equal(t, f.other.ID, view.Referrals[0].CaseReferralUserID)
	assert.Equal(t, f.other.ID, view.Referrals[1].CaseReferralUserID)

	env, _ := f.rec.Last()
	assert.Equal(t, EventFeedbackRequested, env.Event)
	assert.Contains(t, env.Mails[0].Subject, s.SessionCode)
}

func TestContinueAfterReferKeepsSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)

	res, err := f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID: s.SessionID, Refer: &f.other.ID, WithSession: true,
		Date: nextDay(), Start: "10:00", End: "11:00",
	})
	require.NoError(t, err)
	second := res.NewSession

	_, err = f.engine.AcceptSession(ctx, actorOf(f.other), second.SessionID)
	require.NoError(t, err)

	res, err = f.engine.AddEntry(ctx, actorOf(f.other), s.SessionCaseID, EntryRequest{
		SessionID: second.SessionID,
		Date:      nextDay(), Start: "12:00", End: "13:00",
	})
	require.NoError(t, err)
	assert.Equal(t, EntryContinue, res.Kind)

	third, kase := f.reload(t, res.NewSession.SessionID)
	assert.Equal(t, "#CS_01/SC_03", third.SessionCode)
	assert.Equal(t, 3, third.SessionSeq)
	assert.Equal(t, f.other.ID, third.SessionCounsellorID)
	assert.Equal(t, model.SessionStatusProgress, third.SessionStatus)
	assert.Equal(t, model.CaseStatusProgress, kase.CaseStatus)

	prev, _ := f.reload(t, second.SessionID)
	assert.Equal(t, model.SessionStatusCompleted, prev.SessionStatus)
}

func TestContinueNeedsSchedule(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)
	_, err := f.engine.AddEntry(context.Background(), actorOf(f.counsellor), s.SessionCaseID, EntryRequest{SessionID: s.SessionID})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestEditUpdatesNotesAndConcern(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, f.form.FormID)
	notes := "first meeting"
	concern := testutil.Date(2025, time.March, 1)

	res, err := f.engine.AddEntry(context.Background(), actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID:     s.SessionID,
		IsEditable:    true,
		Close:         true,
		CaseDetails:   &notes,
		Report:        []string{"reports/r1.pdf"},
		ConcernRaised: &concern,
	})
	require.NoError(t, err)
	assert.Equal(t, EntryEdit, res.Kind)

	sess, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusPending, sess.SessionStatus)
	assert.Equal(t, notes, sess.SessionCaseDetails)
	assert.Equal(t, []string{"reports/r1.pdf"}, sess.Reports())
	require.NotNil(t, kase.CaseConcernRaised)
	assert.Equal(t, "2025-03-01", kase.CaseConcernRaised.Format("2006-01-02"))
	assert.Equal(t, model.CaseStatusPending, kase.CaseStatus)
}

func TestEntryForSessionOfAnotherCase(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, f.form.FormID)
	b := f.create(t, testutil.CreateForm(t, f.db, formModel.RefereeTeacher, "Meera Iyer").FormID)

	_, err := f.engine.AddEntry(context.Background(), actorOf(f.counsellor), a.SessionCaseID, EntryRequest{
		SessionID: b.SessionID, Close: true, ReasonForClosing: "x",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDecideEntryPrecedence(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name string
		req  EntryRequest
		want EntryKind
	}{
		{"edit wins", EntryRequest{IsEditable: true, Close: true, Refer: &id, WithSession: true}, EntryEdit},
		{"close over refer", EntryRequest{Close: true, Refer: &id, WithSession: true}, EntryClose},
		{"refer with session", EntryRequest{Refer: &id, WithSession: true}, EntryReferWithSession},
		{"refer for feedback", EntryRequest{Refer: &id}, EntryReferFeedback},
		{"with_session alone continues", EntryRequest{WithSession: true}, EntryContinue},
		{"nothing set", EntryRequest{}, EntryContinue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecideEntry(tc.req))
		})
	}
}

func TestAddRemarkAppendsInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	admin := helperAuth.ActingUser{ID: uuid.New(), Role: constants.RoleAdmin, Name: "Head Office"}

	_, err := f.engine.AddRemark(ctx, actorOf(f.counsellor), s.SessionCaseID, "spoke with class teacher")
	require.NoError(t, err)
	view, err := f.engine.AddRemark(ctx, admin, s.SessionCaseID, "parents informed")
	require.NoError(t, err)

	require.Len(t, view.Remarks, 2)
	assert.Equal(t, "Asha Rao", view.Remarks[0].CaseRemarkAuthorName)
	assert.Equal(t, "spoke with class teacher", view.Remarks[0].CaseRemarkText)
	assert.Equal(t, "Head Office", view.Remarks[1].CaseRemarkAuthorName)
	assert.Equal(t, 2, view.Remarks[1].CaseRemarkPosition)

	_, err = f.engine.AddRemark(ctx, actorOf(f.counsellor), s.SessionCaseID, "  ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddRemarkByOutsideCounsellorWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)

	_, err := f.engine.AddRemark(ctx, actorOf(f.other), s.SessionCaseID, "note")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var n int64
	require.NoError(t, f.db.Model(&model.CaseRemarkModel{}).
		Where("case_remark_case_id = ?", s.SessionCaseID).Count(&n).Error)
	assert.Zero(t, n)

	_, err = f.engine.GetCase(ctx, actorOf(f.other), s.SessionCaseID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReferredCounsellorMayRemark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	_, err := f.engine.AcceptSession(ctx, actorOf(f.counsellor), s.SessionID)
	require.NoError(t, err)
	_, err = f.engine.AddEntry(ctx, actorOf(f.counsellor), s.SessionCaseID, EntryRequest{
		SessionID: s.SessionID,
		Refer:     &f.other.ID,
	})
	require.NoError(t, err)

	view, err := f.engine.AddRemark(ctx, actorOf(f.other), s.SessionCaseID, "feedback shared")
	require.NoError(t, err)
	require.Len(t, view.Remarks, 1)
	assert.Equal(t, "Vikram Shah", view.Remarks[0].CaseRemarkAuthorName)
}

func TestTransitionsByOtherCounsellorAreRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.create(t, f.form.FormID)
	f.rec.Reset()
	other := actorOf(f.other)

	_, err := f.engine.AcceptSession(ctx, other, s.SessionID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.engine.RescheduleSession(ctx, other, s.SessionID, RescheduleInput{
		Date:  testutil.Date(2025, time.March, 12),
		Start: "11:00",
		End:   "12:00",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = f.engine.CancelSession(ctx, other, s.SessionID, "not mine")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.engine.AddEntry(ctx, other, s.SessionCaseID, EntryRequest{
		SessionID:        s.SessionID,
		Close:            true,
		ReasonForClosing: "resolved",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	sess, kase := f.reload(t, s.SessionID)
	assert.Equal(t, model.SessionStatusPending, sess.SessionStatus)
	assert.Equal(t, model.CaseStatusPending, kase.CaseStatus)
	assert.Empty(t, f.rec.Envelopes())
}

func TestListSessionsScopedToCounsellor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, f.form.FormID)
	f.create(t, testutil.CreateForm(t, f.db, formModel.RefereeStudent, "Nikhil Jain").FormID)

	rows, total, err := f.engine.ListSessions(ctx, actorOf(f.counsellor), SessionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha Rao", rows[0].CounsellorName)

	rows, total, err = f.engine.ListSessions(ctx, actorOf(f.counsellor), SessionFilter{Search: "nikhil"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Nikhil Jain", rows[0].StudentName)

	_, total, err = f.engine.ListSessions(ctx, actorOf(f.other), SessionFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
