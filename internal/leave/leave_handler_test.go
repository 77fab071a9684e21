package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leavedesk/internal/leave"
	leaveerrors "go-leavedesk/internal/leave/errors"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn           func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error)
	getAllFn           func(ctx context.Context) ([]leave.LeaveRequestResponse, error)
	getByIDFn          func(ctx context.Context, id string) (leave.LeaveRequestResponse, error)
	getByUserFn        func(ctx context.Context, userID string) ([]leave.LeaveRequestResponse, error)
	getByUserAndYearFn func(ctx context.Context, userID string, year int) ([]leave.LeaveRequestResponse, error)
	getPendingFn       func(ctx context.Context) ([]leave.LeaveRequestResponse, error)
	getActiveFn        func(ctx context.Context) ([]leave.LeaveRequestResponse, error)
	getUpcomingFn      func(ctx context.Context) ([]leave.LeaveRequestResponse, error)
	approveFn          func(ctx context.Context, actorID, id string) (leave.LeaveRequestResponse, error)
	rejectFn           func(ctx context.Context, actorID, id, comment string) (leave.LeaveRequestResponse, error)
	cancelFn           func(ctx context.Context, actorID, actorRole, id string) (leave.LeaveRequestResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	return f.createFn(ctx, userID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) GetByUser(ctx context.Context, userID string) ([]leave.LeaveRequestResponse, error) {
	return f.getByUserFn(ctx, userID)
}
func (f *fakeLeaveService) GetByUserAndYear(ctx context.Context, userID string, year int) ([]leave.LeaveRequestResponse, error) {
	return f.getByUserAndYearFn(ctx, userID, year)
}
func (f *fakeLeaveService) GetPending(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	return f.getPendingFn(ctx)
}
func (f *fakeLeaveService) GetActive(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	return f.getActiveFn(ctx)
}
func (f *fakeLeaveService) GetUpcoming(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	return f.getUpcomingFn(ctx)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id string) (leave.LeaveRequestResponse, error) {
	return f.approveFn(ctx, actorID, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actorID, id, comment string) (leave.LeaveRequestResponse, error) {
	return f.rejectFn(ctx, actorID, id, comment)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actorID, actorRole, id string) (leave.LeaveRequestResponse, error) {
	return f.cancelFn(ctx, actorID, actorRole, id)
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, leave.TypePaid, req.LeaveType)
				return leave.LeaveRequestResponse{
					ID:          uuid.New().String(),
					UserID:      uid,
					LeaveType:   req.LeaveType,
					StartDate:   req.StartDate,
					EndDate:     req.EndDate,
					WorkingDays: 4,
					Status:      leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"PAID","start_date":"2026-03-10","end_date":"2026-03-13","comment":"Spring break"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", userID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveRequestResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, 4, got.WorkingDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative admission denied returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrAdmissionDenied
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"PAID","start_date":"2026-03-10","end_date":"2026-03-13"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Equal(t, "too many employees already on approved leave in this period", env.Error.Message)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, errors.New("create failed")
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"UNPAID","start_date":"2026-03-10","end_date":"2026-03-13"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success with pagination", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
				return []leave.LeaveRequestResponse{
					{ID: uuid.New().String(), Status: leave.StatusPending},
					{ID: uuid.New().String(), Status: leave.StatusApproved},
					{ID: uuid.New().String(), Status: leave.StatusRejected},
				}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests?page=2&page_size=2", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveRequestResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, leave.StatusRejected, got[0].Status)
		assert.NotNil(t, env.Meta)
		assert.Equal(t, int64(3), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)
		assert.Equal(t, 2, env.Meta.Page)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
				return nil, errors.New("db error")
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	t.Run("owner can view own request", func(t *testing.T) {
		userID := uuid.New().String()
		requestID := uuid.New().String()
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, requestID, id)
				return leave.LeaveRequestResponse{ID: id, UserID: userID, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/"+requestID, nil)
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("user_id", userID)
		c.Set("role", user.RoleEmployee)

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative other employee is forbidden", func(t *testing.T) {
		requestID := uuid.New().String()
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{ID: id, UserID: uuid.New().String()}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/"+requestID, nil)
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", user.RoleEmployee)

		h.GetByID(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("admin can view any request", func(t *testing.T) {
		requestID := uuid.New().String()
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{ID: id, UserID: uuid.New().String()}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/"+requestID, nil)
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", user.RoleAdmin)

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_GetByUser(t *testing.T) {
	t.Run("success with year filter", func(t *testing.T) {
		userID := uuid.New().String()
		svc := &fakeLeaveService{
			getByUserAndYearFn: func(ctx context.Context, uid string, year int) ([]leave.LeaveRequestResponse, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, 2026, year)
				return []leave.LeaveRequestResponse{{ID: uuid.New().String(), UserID: uid}}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/user/"+userID+"?year=2026", nil)
		c.Params = []gin.Param{{Key: "userId", Value: userID}}
		c.Set("user_id", userID)
		c.Set("role", user.RoleEmployee)

		h.GetByUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative employee cannot list another user", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		otherID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/user/"+otherID, nil)
		c.Params = []gin.Param{{Key: "userId", Value: otherID}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", user.RoleEmployee)

		h.GetByUser(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative year must be numeric", func(t *testing.T) {
		userID := uuid.New().String()
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/user/"+userID+"?year=abc", nil)
		c.Params = []gin.Param{{Key: "userId", Value: userID}}
		c.Set("user_id", userID)
		c.Set("role", user.RoleEmployee)

		h.GetByUser(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Decisions(t *testing.T) {
	t.Run("approve success", func(t *testing.T) {
		actorID := uuid.New().String()
		requestID := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id string) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, requestID, id)
				return leave.LeaveRequestResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/"+requestID+"/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("user_id", actorID)
		c.Set("role", user.RoleAdmin)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveRequestResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("reject success with comment", func(t *testing.T) {
		actorID := uuid.New().String()
		requestID := uuid.New().String()
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, aid, id, comment string) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, "Team is at capacity", comment)
				return leave.LeaveRequestResponse{ID: id, Status: leave.StatusRejected, DecisionComment: &comment}, nil
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/"+requestID+"/reject", strings.NewReader(`{"comment":"Team is at capacity"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("user_id", actorID)
		c.Set("role", user.RoleAdmin)

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("cancel maps ownership error", func(t *testing.T) {
		requestID := uuid.New().String()
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, aid, role, id string) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, user.RoleEmployee, role)
				return leave.LeaveRequestResponse{}, leaveerrors.ErrNotRequestOwner
			},
		}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/"+requestID+"/cancel", nil)
		c.Params = []gin.Param{{Key: "id", Value: requestID}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", user.RoleEmployee)

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}
