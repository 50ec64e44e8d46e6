package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/money"
)

// Стейтфул фейк печатных заданий в памяти
type fakePrintJobRepo struct {
	mu   sync.Mutex
	jobs map[string]entity.PrintJob
}

func newFakePrintJobRepo() *fakePrintJobRepo {
	return &fakePrintJobRepo{jobs: make(map[string]entity.PrintJob)}
}

func (r *fakePrintJobRepo) Create(ctx context.Context, job *entity.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakePrintJobRepo) GetByID(ctx context.Context, id string) (*entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repo.ErrPrintJobNotFound
	}
	return &job, nil
}

func (r *fakePrintJobRepo) UpdateStatus(ctx context.Context, id string, status entity.PrintJobStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return repo.ErrPrintJobNotFound
	}
	job.Status = status
	job.Error = errMsg
	r.jobs[id] = job
	return nil
}

func (r *fakePrintJobRepo) ListPending(ctx context.Context, limit int) ([]entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PrintJob
	for _, job := range r.jobs {
		if job.Status == entity.PrintJobStatusQueued || job.Status == entity.PrintJobStatusPrinting {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *fakePrintJobRepo) ListByOrderID(ctx context.Context, orderID string) ([]entity.PrintJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PrintJob
	for _, job := range r.jobs {
		if job.OrderID == orderID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *fakePrintJobRepo) jobCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// Управляемый сервис печати: заданное число первых отправок завершается
// ошибкой
type stubPrintService struct {
	mu        sync.Mutex
	failFirst int
	submitted []entity.PrintJob
	online    bool
}

func (s *stubPrintService) Submit(ctx context.Context, job *entity.PrintJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, *job)
	if len(s.submitted) <= s.failFirst {
		return errors.New("замятие бумаги")
	}
	return nil
}

func (s *stubPrintService) Status(ctx context.Context, printerName string) (*PrinterStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.online {
		return nil, errors.New("принтер не отвечает")
	}
	return &PrinterStatus{Online: true}, nil
}

func (s *stubPrintService) submittedJobs() []entity.PrintJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.PrintJob, len(s.submitted))
	copy(out, s.submitted)
	return out
}

func completedOrder() *entity.Order {
	return &entity.Order{
		ID:          "order-1",
		OrderNumber: "ORD-1-0001",
		Items: []entity.OrderItem{
			{ProductID: "p1", Name: "Капучино", Price: money.FromUnits(25, 0), Quantity: 2},
		},
		Subtotal:        money.FromUnits(50, 0),
		DiscountPercent: 10,
		DiscountAmount:  money.FromUnits(5, 0),
		Total:           money.FromUnits(45, 0),
		Status:          entity.OrderStatusCompleted,
		PaymentMethod:   "card",
	}
}

func newTestPrinter(t *testing.T, svc *stubPrintService) (*PrinterUseCase, *fakePrintJobRepo, *MockOrderRepository) {
	t.Helper()
	jobRepo := newFakePrintJobRepo()
	orderRepo := new(MockOrderRepository)

	uc := NewPrinterUseCase(jobRepo, orderRepo, svc)
	t.Cleanup(uc.Close)
	return uc, jobRepo, orderRepo
}

func TestPrintReceiptSuccess(t *testing.T) {
	svc := &stubPrintService{}
	uc, jobRepo, orderRepo := newTestPrinter(t, svc)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(completedOrder(), nil)
	orderRepo.On("MarkPrinted", mock.Anything, "order-1", mock.Anything).Return(nil)

	uc.Store().Dispatch(PrintReceipt{OrderID: "order-1"})

	eff := awaitEffect(t, uc.Store().Effects())
	done, ok := eff.(PrintCompleted)
	assert.True(t, ok)

	// Печать чека завершает продажу
	eff = awaitEffect(t, uc.Store().Effects())
	_, ok = eff.(NavigateToNewSale)
	assert.True(t, ok)

	job, err := jobRepo.GetByID(context.Background(), done.JobID)
	assert.NoError(t, err)
	assert.Equal(t, entity.PrintJobStatusDone, job.Status)
	assert.Contains(t, job.Content, "ORD-1-0001")
	assert.Contains(t, job.Content, "Капучино")
	assert.Contains(t, job.Content, "45.00")

	// На заказе проставлена отметка печати чека
	orderRepo.AssertCalled(t, "MarkPrinted", mock.Anything, "order-1", mock.Anything)
}

func TestPrintKitchenOrderDoesNotFinishSale(t *testing.T) {
	svc := &stubPrintService{}
	uc, _, orderRepo := newTestPrinter(t, svc)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(completedOrder(), nil)

	uc.Store().Dispatch(PrintKitchenOrder{OrderID: "order-1"})

	eff := awaitEffect(t, uc.Store().Effects())
	_, ok := eff.(PrintCompleted)
	assert.True(t, ok)

	// Кухонный талон не завершает продажу
	select {
	case e := <-uc.Store().Effects():
		t.Fatalf("неожиданный эффект: %v", e)
	case <-time.After(50 * time.Millisecond):
	}

	jobs := svc.submittedJobs()
	assert.Len(t, jobs, 1)
	assert.Equal(t, entity.PrintJobTypeKitchen, jobs[0].Type)
	assert.Contains(t, jobs[0].Content, "КУХНЯ")

	// Кухонный талон отметку печати чека не ставит
	orderRepo.AssertNotCalled(t, "MarkPrinted", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetryPrintResendsSameContent(t *testing.T) {
	svc := &stubPrintService{failFirst: 1}
	uc, jobRepo, orderRepo := newTestPrinter(t, svc)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(completedOrder(), nil)
	orderRepo.On("MarkPrinted", mock.Anything, "order-1", mock.Anything).Return(nil)

	uc.Store().Dispatch(PrintReceipt{OrderID: "order-1"})

	eff := awaitEffect(t, uc.Store().Effects())
	failed, ok := eff.(PrintFailed)
	assert.True(t, ok)
	assert.Equal(t, "замятие бумаги", failed.Reason)

	uc.Store().Dispatch(RetryPrint{})

	eff = awaitEffect(t, uc.Store().Effects())
	done, ok := eff.(PrintCompleted)
	assert.True(t, ok)

	// Повтор создает новое задание с тем же содержимым
	assert.NotEqual(t, failed.JobID, done.JobID)
	assert.Equal(t, 2, jobRepo.jobCount())

	jobs := svc.submittedJobs()
	assert.Len(t, jobs, 2)
	assert.Equal(t, jobs[0].Content, jobs[1].Content)
}

func TestRetryWithoutFailureRejected(t *testing.T) {
	svc := &stubPrintService{}
	uc, _, _ := newTestPrinter(t, svc)

	uc.Store().Dispatch(RetryPrint{})

	eff := awaitEffect(t, uc.Store().Effects())
	assert.Equal(t, "show_error", eff.Kind())
}

func TestSkipPrintingFinishesSale(t *testing.T) {
	svc := &stubPrintService{failFirst: 1}
	uc, jobRepo, orderRepo := newTestPrinter(t, svc)
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(completedOrder(), nil)

	uc.Store().Dispatch(PrintReceipt{OrderID: "order-1"})
	eff := awaitEffect(t, uc.Store().Effects())
	failed := eff.(PrintFailed)

	uc.Store().Dispatch(SkipPrinting{})
	eff = awaitEffect(t, uc.Store().Effects())
	_, ok := eff.(NavigateToNewSale)
	assert.True(t, ok)

	// Неудачное задание отменено
	job, err := jobRepo.GetByID(context.Background(), failed.JobID)
	assert.NoError(t, err)
	assert.Equal(t, entity.PrintJobStatusCancelled, job.Status)
}

func TestSetCopiesBounds(t *testing.T) {
	svc := &stubPrintService{}
	uc, _, _ := newTestPrinter(t, svc)

	uc.Store().Dispatch(SetCopies{Copies: 0})
	eff := awaitEffect(t, uc.Store().Effects())
	assert.Equal(t, "show_error", eff.Kind())
	assert.Equal(t, 1, uc.Store().State().Copies)

	uc.Store().Dispatch(SetCopies{Copies: 11})
	eff = awaitEffect(t, uc.Store().Effects())
	assert.Equal(t, "show_error", eff.Kind())
	assert.Equal(t, 1, uc.Store().State().Copies)

	uc.Store().Dispatch(SetCopies{Copies: 10})
	assert.Eventually(t, func() bool {
		return uc.Store().State().Copies == 10
	}, time.Second, 5*time.Millisecond)
}

func TestCheckPrinterStatus(t *testing.T) {
	svc := &stubPrintService{online: true}
	uc, _, _ := newTestPrinter(t, svc)

	uc.Store().Dispatch(CheckPrinterStatus{})
	assert.Eventually(t, func() bool {
		return uc.Store().State().PrinterOnline
	}, time.Second, 5*time.Millisecond)
}

func TestCheckPrinterStatusOffline(t *testing.T) {
	svc := &stubPrintService{online: false}
	uc, _, _ := newTestPrinter(t, svc)

	uc.Store().Dispatch(CheckPrinterStatus{})
	assert.Eventually(t, func() bool {
		st := uc.Store().State()
		return !st.PrinterOnline && st.Error != ""
	}, time.Second, 5*time.Millisecond)
}
