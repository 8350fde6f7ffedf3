// Package pix связывает ядро с платежным провайдером: адаптер клиента и фоновый
// процессор сверки заявок на пополнение.
package pix

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/service"
	"github.com/autogiro/credits/internal/transport/pix/client"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultPollInterval           = 5 * time.Second
	defaultLimitPerIteration uint = 100
	defaultSettleWorkers     uint = 10
)

// Processor периодически сверяет pending заявки с провайдером и зачисляет
// подтвержденные оплаты. Вся идемпотентность живет в сервисном слое, поэтому
// процессор безопасно гоняется с HTTP опросами тех же заявок от клиентов.
type Processor struct {
	svs               Servicer
	l                 *logrus.Entry
	limitPerIteration uint
	settleWorkers     uint
	pollInterval      time.Duration
}

// New создает новый экземпляр процессора сверки оплат.
func New(svs Servicer, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "pix",
		"module":    "processor",
	})

	return &Processor{
		svs:               svs,
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		settleWorkers:     defaultSettleWorkers,
		pollInterval:      defaultPollInterval,
	}
}

// SetLimitPerIteration устанавливает кол-во заявок, обрабатываемых за одну итерацию.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	p.limitPerIteration = limit
	return p
}

// SetSettleWorkers устанавливает кол-во воркеров, опрашивающих провайдера.
func (p *Processor) SetSettleWorkers(workers uint) *Processor {
	p.settleWorkers = workers
	return p
}

// Run запускает сверку в бесконечном цикле до отмены контекста.
//
// Алгоритм работы:
//  1. Помечает просроченные заявки (expired строки больше не опрашиваются).
//  2. Запрашивает партию pending заявок, лимит - SetLimitPerIteration.
//  3. Поднимает N воркеров (SetSettleWorkers), каждый гонит заявки через
//     CheckAndSettle сервисного слоя.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"limitPerIteration": p.limitPerIteration,
		"settleWorkers":     p.settleWorkers,
	}).Info("Starting")

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		default:
			if err := p.process(ctx); err != nil {
				if !errors.Is(err, ErrNoPurchases) {
					p.l.WithError(err).Error("process error")
				}
			}
			select {
			case <-ctx.Done():
			case <-time.After(p.pollInterval):
			}
		}
	}
}

func (p *Processor) process(ctx context.Context) error {
	expireCtx, expireCancel := context.WithTimeout(ctx, defaultServiceTimeout)
	expired, expireErr := p.svs.ExpireOverdue(expireCtx, p.limitPerIteration)
	expireCancel()
	if expireErr != nil {
		p.l.WithError(expireErr).Error("expiring overdue purchases")
	} else if expired > 0 {
		p.l.WithField("count", expired).Info("Expired overdue purchases")
	}

	listCtx, listCancel := context.WithTimeout(ctx, defaultServiceTimeout)
	purchases, listErr := p.svs.ListForReconciliation(listCtx, p.limitPerIteration)
	listCancel()
	if listErr != nil {
		return fmt.Errorf("process: %w", listErr)
	}
	if len(purchases) == 0 {
		return ErrNoPurchases
	}

	p.runWorkers(ctx, purchases)
	return nil
}

// runWorkers раздает заявки воркерам по паттерну fan-out/fan-in и ждет окончания.
func (p *Processor) runWorkers(ctx context.Context, purchases []domain.PendingPurchase) {
	var taskCh = make(chan *domain.PendingPurchase, len(purchases))
	for i := range purchases {
		taskCh <- &purchases[i]
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(p.settleWorkers)) //nolint:gosec

	for i := range p.settleWorkers {
		go p.worker(ctx, wg, i+1, taskCh)
	}
	wg.Wait()
}

func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.PendingPurchase,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			p.processWorkerTask(ctx, workerID, task)
		}
	}
}

// processWorkerTask сверяет одну заявку. При 429 от провайдера ждет указанный
// в ответе интервал и пробует снова.
func (p *Processor) processWorkerTask(ctx context.Context, workerID uint, task *domain.PendingPurchase) {
	l := p.l.WithFields(logrus.Fields{
		"worker":     workerID,
		"purchaseID": task.ID,
	})

	for {
		result, err := p.svs.CheckAndSettle(ctx, task.UserID, task.ID)
		if err != nil {
			var tooManyReq *client.TooManyRequestError
			if errors.As(err, &tooManyReq) {
				select {
				case <-ctx.Done():
					return
				case <-time.After(tooManyReq.RetryAfter):
					continue
				}
			}
			l.WithError(err).Error("check and settle")
			return
		}

		switch result.Outcome {
		case service.SettleOutcomeSettled:
			l.WithField("credits", result.Purchase.CreditsToAdd).Info("Payment settled")
		case service.SettleOutcomeAlreadySettled:
			l.Debug("Already settled")
		case service.SettleOutcomeExpired:
			l.Debug("Purchase expired")
		case service.SettleOutcomeStillPending:
			l.WithField("providerStatus", result.ProviderStatus).Debug("Still pending")
		}
		return
	}
}
