package inventory

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que los decrementos de lotes y los
// movimientos del batch sean visibles juntos o ninguno (atomicidad del motor).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.StockLotRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.StockAlertRepository,
		codeRepo repository.CodeRepository,
	) error) error
}

// AlertDispatcher recibe las alertas ya confirmadas para su entrega
// (correo, dashboard). Corre fuera de la transacción del motor: un fallo de
// entrega jamás revierte un consumo.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alerts []*entity.StockAlert)
}
