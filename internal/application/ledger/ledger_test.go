package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	appledger "github.com/tu-usuario/taller-pro/internal/application/ledger"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: store en memoria + casos de uso del libro de lotes
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompany = "company-1"
	testUser    = "user-1"
)

type env struct {
	store    *memStore
	consume  *appledger.ConsumeUseCase
	reverse  *appledger.ReverseUseCase
	purchase *appledger.PurchaseUseCase
	stock    *appledger.StockUseCase
	ctx      context.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := newMemStore()
	runner := &memTxRunner{store}
	items := &memItemRepo{store}
	return &env{
		store:    store,
		consume:  appledger.NewConsumeUseCase(runner, items),
		reverse:  appledger.NewReverseUseCase(runner),
		purchase: appledger.NewPurchaseUseCase(runner, items, &memPurchaseRepo{store}),
		stock:    appledger.NewStockUseCase(runner, items, &memLotRepo{store}),
		ctx:      context.Background(),
	}
}

func (e *env) addItem(id, name string, isService bool, costPrice, salePrice, taxRate float64) {
	e.store.items[id] = &entity.InventoryItem{
		ID:        id,
		CompanyID: testCompany,
		SKU:       id,
		Name:      name,
		CostPrice: decimal.NewFromFloat(costPrice),
		SalePrice: decimal.NewFromFloat(salePrice),
		TaxRate:   decimal.NewFromFloat(taxRate),
		IsService: isService,
	}
}

func (e *env) addOrder(id string) entity.DocumentRef {
	e.store.orders[id] = &entity.Order{ID: id, CompanyID: testCompany, Status: entity.OrderStatusOpen}
	return entity.DocumentRef{Kind: entity.DocumentKindOrder, ID: id}
}

func (e *env) addSale(id string) entity.DocumentRef {
	e.store.sales[id] = &entity.Sale{ID: id, CompanyID: testCompany}
	return entity.DocumentRef{Kind: entity.DocumentKindSale, ID: id}
}

// receive registra una compra de una sola línea y devuelve su ID.
func (e *env) receive(t *testing.T, itemID string, quantity, unitCost float64) string {
	t.Helper()
	id, err := e.purchase.ReceiveStock(e.ctx, testCompany, testUser, dto.ReceiveStockRequest{
		SupplierID: "supplier-1",
		InvoiceRef: "FV-001",
		Lines: []dto.ReceiveStockLine{{
			ItemID:   itemID,
			Quantity: decimal.NewFromFloat(quantity),
			UnitCost: decimal.NewFromFloat(unitCost),
		}},
	})
	require.NoError(t, err, "la recepción de stock debe ser exitosa")
	// Separa los timestamps de creación entre compras para un orden FIFO estable.
	time.Sleep(2 * time.Millisecond)
	return id
}

func (e *env) consumeQty(ref entity.DocumentRef, itemID string, quantity float64) error {
	return e.consume.ConsumeForDocument(e.ctx, appledger.ConsumeInput{
		CompanyID: testCompany,
		UserID:    testUser,
		Ref:       ref,
		ItemID:    itemID,
		Quantity:  decimal.NewFromFloat(quantity),
	})
}

func (e *env) linesOf(t *testing.T, ref entity.DocumentRef) []*entity.AllocationLine {
	t.Helper()
	lines, err := (&memAllocRepo{e.store}).ListByParent(ref)
	require.NoError(t, err)
	return lines
}

// totalStock suma las cantidades de todos los lotes de un ítem.
func (e *env) totalStock(itemID string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range e.store.lots {
		if lot.ItemID == itemID {
			total = total.Add(lot.Quantity)
		}
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción de compras
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveStock_CreaUnLotePorLinea(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Filtro de aceite", false, 8, 15, 0.19)
	e.addItem("item-2", "Bujía", false, 3, 7, 0.19)

	id, err := e.purchase.ReceiveStock(e.ctx, testCompany, testUser, dto.ReceiveStockRequest{
		SupplierID: "supplier-1",
		InvoiceRef: "FV-100",
		Lines: []dto.ReceiveStockLine{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(8)},
			{ItemID: "item-2", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Len(t, e.store.lots, 2, "cada línea de compra crea exactamente un lote")
	for _, lot := range e.store.lots {
		assert.Equal(t, id, lot.PurchaseID, "el lote referencia la compra que lo originó")
		assert.True(t, lot.Quantity.Equal(lot.ReceivedQty), "lote recién recibido está intacto")
	}
	entry := e.store.purchases[id]
	require.NotNil(t, entry)
	// total = 10*8 + 4*3 = 92
	assert.True(t, entry.Total.Equal(decimal.NewFromInt(92)), "el total se calcula desde las líneas")
}

func TestReceiveStock_RechazaServicios(t *testing.T) {
	e := newEnv(t)
	e.addItem("svc-1", "Mano de obra", true, 30, 50, 0.19)

	_, err := e.purchase.ReceiveStock(e.ctx, testCompany, testUser, dto.ReceiveStockRequest{
		Lines: []dto.ReceiveStockLine{{ItemID: "svc-1", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "a un servicio jamás se le asignan lotes")
	assert.Empty(t, e.store.lots)
	assert.Empty(t, e.store.purchases)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo FIFO
// ──────────────────────────────────────────────────────────────────────────────

// Escenario concreto de dos lotes: A (5 a $10, más antiguo) y B (5 a $12).
// Consumir 7 debe congelar [{A,5,$10},{B,2,$12}] y dejar A en 0 y B en 3.
func TestConsume_EscenarioDosLotes(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Pastillas de freno", false, 10, 25, 0)
	pA := e.receive(t, "item-1", 5, 10)
	pB := e.receive(t, "item-1", 5, 12)
	ref := e.addOrder("order-1")

	require.NoError(t, e.consumeQty(ref, "item-1", 7))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 2, "el consumo tocó dos lotes, una línea por lote")

	var lotA, lotB *entity.StockLot
	for _, lot := range e.store.lots {
		switch lot.PurchaseID {
		case pA:
			lotA = lot
		case pB:
			lotB = lot
		}
	}
	require.NotNil(t, lotA)
	require.NotNil(t, lotB)
	assert.True(t, lotA.Quantity.IsZero(), "lote A queda en 0")
	assert.True(t, lotB.Quantity.Equal(decimal.NewFromInt(3)), "lote B queda en 3")

	// Las líneas congelan el costo DEL LOTE, no el promedio del ítem.
	byLot := map[string]*entity.AllocationLine{}
	for _, line := range lines {
		byLot[line.LotID] = line
	}
	require.Contains(t, byLot, lotA.ID)
	require.Contains(t, byLot, lotB.ID)
	assert.True(t, byLot[lotA.ID].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, byLot[lotA.ID].UnitCost.Equal(decimal.NewFromInt(10)), "costo congelado $10")
	assert.True(t, byLot[lotB.ID].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, byLot[lotB.ID].UnitCost.Equal(decimal.NewFromInt(12)), "costo congelado $12")

	// Promedio del remanente = $12.00, stock restante total = 3.
	stock, err := e.stock.CurrentStock(e.ctx, testCompany, "item-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, stock.AverageCost.Equal(decimal.NewFromInt(12)))
}

// Atomicidad con stock insuficiente: ningún lote cambia y no se crean líneas.
func TestConsume_StockInsuficienteNoEscribeNada(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Correa", false, 20, 35, 0.19)
	e.receive(t, "item-1", 3, 20)
	e.receive(t, "item-1", 2, 22)
	ref := e.addOrder("order-1")

	before := e.store.lotSnapshot()
	err := e.consumeQty(ref, "item-1", 6)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	after := e.store.lotSnapshot()
	require.Equal(t, len(before), len(after))
	for id, qty := range before {
		assert.True(t, qty.Equal(after[id]), "la cantidad del lote %s no debe cambiar", id)
	}
	assert.Empty(t, e.linesOf(t, ref), "no debe congelarse línea alguna")
}

// Servicio: línea con centinela SERVICE, sin tocar lote alguno.
func TestConsume_ServicioNoTocaLotes(t *testing.T) {
	e := newEnv(t)
	e.addItem("svc-1", "Alineación", true, 30, 60, 0.19)
	ref := e.addOrder("order-1")

	require.NoError(t, e.consumeQty(ref, "svc-1", 1))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	assert.Equal(t, entity.ServiceLotID, lines[0].LotID)
	assert.Empty(t, e.store.lots, "un servicio no crea ni consume lotes")
}

// Consumo hacia una venta: los totales se recalculan dentro de la transacción.
func TestConsume_VentaRecalculaTotales(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Aceite 10W40", false, 10, 20, 0.19)
	e.receive(t, "item-1", 10, 10)
	ref := e.addSale("sale-1")

	require.NoError(t, e.consumeQty(ref, "item-1", 2))

	sale := e.store.sales["sale-1"]
	// neto = 2*20 = 40; IVA = 40*0.19 = 7.6; total = 47.6
	assert.True(t, sale.NetTotal.Equal(decimal.NewFromInt(40)), "subtotal desde la lista completa de líneas")
	assert.True(t, sale.TaxTotal.Equal(decimal.NewFromFloat(7.6)))
	assert.True(t, sale.Total.Equal(decimal.NewFromFloat(47.6)))
}

// Cada línea congelada registra quién hizo el consumo.
func TestConsume_RegistraElUsuario(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Refrigerante", false, 12, 22, 0.19)
	e.receive(t, "item-1", 5, 12)
	ref := e.addOrder("order-1")

	require.NoError(t, e.consumeQty(ref, "item-1", 2))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	assert.Equal(t, testUser, lines[0].CreatedBy, "la línea registra el usuario que consumió")
}

func TestConsume_PadreInexistente(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Filtro", false, 5, 9, 0)
	e.receive(t, "item-1", 5, 5)

	err := e.consumeQty(entity.DocumentRef{Kind: entity.DocumentKindOrder, ID: "no-existe"}, "item-1", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(5)), "sin padre no se consume nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión
// ──────────────────────────────────────────────────────────────────────────────

// Conservación: consumir y revertir deja el stock total exactamente como antes.
func TestReverse_RestauraAlLoteOriginal(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Amortiguador", false, 40, 80, 0.19)
	e.receive(t, "item-1", 6, 40)
	ref := e.addOrder("order-1")

	before := e.totalStock("item-1")
	require.NoError(t, e.consumeQty(ref, "item-1", 4))
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(2)))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	require.NoError(t, e.reverse.ReverseFromDocument(e.ctx, appledger.ReverseInput{
		CompanyID: testCompany,
		Ref:       ref,
		LineID:    lines[0].ID,
	}))

	assert.True(t, e.totalStock("item-1").Equal(before), "el stock total vuelve al valor previo al consumo")
	assert.Empty(t, e.linesOf(t, ref), "la línea revertida desaparece del documento")
	assert.Len(t, e.store.lots, 1, "se restaura el lote original, no se crea uno nuevo")
}

// Si el lote original desapareció, la reversión crea un lote RETURN con el
// costo congelado y la procedencia del documento.
func TestReverse_CreaLoteDeDevolucionSiElOriginalNoExiste(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Radiador", false, 90, 150, 0)
	e.receive(t, "item-1", 2, 90)
	ref := e.addOrder("order-1")
	require.NoError(t, e.consumeQty(ref, "item-1", 2))

	// El lote desaparece por fuera del flujo normal (borrado suave externo).
	for id := range e.store.lots {
		delete(e.store.lots, id)
	}

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	require.NoError(t, e.reverse.ReverseFromDocument(e.ctx, appledger.ReverseInput{
		CompanyID: testCompany,
		Ref:       ref,
		LineID:    lines[0].ID,
	}))

	require.Len(t, e.store.lots, 1, "debe existir exactamente un lote de devolución")
	for _, lot := range e.store.lots {
		assert.Equal(t, entity.LotSourceReturn, lot.PurchaseID, "procedencia RETURN")
		assert.Equal(t, ref.ID, lot.SourceDocID, "anota el documento origen de la devolución")
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, lot.UnitCost.Equal(decimal.NewFromInt(90)), "conserva el costo congelado de la línea")
	}
}

// Reversión de línea de servicio: no-op sobre lotes, solo elimina la línea.
func TestReverse_ServicioEsNoOp(t *testing.T) {
	e := newEnv(t)
	e.addItem("svc-1", "Diagnóstico", true, 20, 45, 0.19)
	ref := e.addSale("sale-1")
	require.NoError(t, e.consumeQty(ref, "svc-1", 1))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	require.NoError(t, e.reverse.ReverseFromDocument(e.ctx, appledger.ReverseInput{
		CompanyID: testCompany,
		Ref:       ref,
		LineID:    lines[0].ID,
	}))

	assert.Empty(t, e.store.lots, "los servicios no devuelven stock físico")
	assert.Empty(t, e.linesOf(t, ref))

	sale := e.store.sales["sale-1"]
	assert.True(t, sale.Total.IsZero(), "los totales se recalculan tras quitar la línea")
}

// La línea debe pertenecer al documento indicado.
func TestReverse_LineaDeOtroDocumento(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Bombillo", false, 2, 5, 0)
	e.receive(t, "item-1", 10, 2)
	ref1 := e.addOrder("order-1")
	ref2 := e.addOrder("order-2")
	require.NoError(t, e.consumeQty(ref1, "item-1", 1))

	lines := e.linesOf(t, ref1)
	require.Len(t, lines, 1)
	err := e.reverse.ReverseFromDocument(e.ctx, appledger.ReverseInput{
		CompanyID: testCompany,
		Ref:       ref2,
		LineID:    lines[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, e.linesOf(t, ref1), 1, "la línea ajena queda intacta")
}

// Revertir dos veces la misma línea: la segunda no encuentra nada que borrar
// y el stock no se infla.
func TestReverse_SegundaReversionFalla(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Bomba de agua", false, 60, 110, 0)
	e.receive(t, "item-1", 10, 60)
	ref := e.addOrder("order-1")
	require.NoError(t, e.consumeQty(ref, "item-1", 4))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	input := appledger.ReverseInput{CompanyID: testCompany, Ref: ref, LineID: lines[0].ID}
	require.NoError(t, e.reverse.ReverseFromDocument(e.ctx, input))

	err := e.reverse.ReverseFromDocument(e.ctx, input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(10)),
		"el stock total sigue igual al recibido, la devolución no se duplica")
}

// Dos reversiones de la misma línea compitiendo: la segunda lee la línea
// todavía viva, pero al llegar a borrarla la primera ya la eliminó. Debe
// abortar con ErrNotFound sin restaurar stock de nuevo.
func TestReverse_ReversionConcurrenteNoDuplicaDevolucion(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Alternador", false, 150, 260, 0.19)
	e.receive(t, "item-1", 10, 150)
	ref := e.addOrder("order-1")
	require.NoError(t, e.consumeQty(ref, "item-1", 4))

	lines := e.linesOf(t, ref)
	require.Len(t, lines, 1)
	input := appledger.ReverseInput{CompanyID: testCompany, Ref: ref, LineID: lines[0].ID}

	// La reversión competidora se cuela justo después de que esta transacción
	// leyó la línea y antes de que la borre.
	fired := false
	e.store.onAllocGetByID = func() {
		if fired {
			return
		}
		fired = true
		require.NoError(t, e.reverse.ReverseFromDocument(e.ctx, input))
	}

	err := e.reverse.ReverseFromDocument(e.ctx, input)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la reversión perdedora aborta")
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(10)),
		"se devuelve una sola vez: nunca hay más stock del recibido")
	assert.Empty(t, e.linesOf(t, ref))
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardia de eliminación de compras
// ──────────────────────────────────────────────────────────────────────────────

// Recibir 10, consumir 3, intentar borrar la compra: falla con LotInUse
// nombrando el ítem; nada se borra.
func TestDeletePurchase_BloqueadaPorConsumo(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Kit de embrague", false, 200, 350, 0.19)
	purchaseID := e.receive(t, "item-1", 10, 200)
	ref := e.addOrder("order-1")
	require.NoError(t, e.consumeQty(ref, "item-1", 3))

	err := e.purchase.DeletePurchase(e.ctx, testCompany, purchaseID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLotInUse)

	var inUse *domain.LotInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, "Kit de embrague", inUse.ItemName, "el error nombra el ítem bloqueante")

	assert.NotNil(t, e.store.purchases[purchaseID], "la compra sigue existiendo")
	assert.Len(t, e.store.lots, 1, "el lote sigue existiendo")
}

// Sin consumo alguno, borrar la compra elimina todos sus lotes y la cabecera.
func TestDeletePurchase_SinConsumoEliminaTodo(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Filtro de aire", false, 6, 12, 0.19)
	e.addItem("item-2", "Limpiaparabrisas", false, 4, 9, 0.19)

	id, err := e.purchase.ReceiveStock(e.ctx, testCompany, testUser, dto.ReceiveStockRequest{
		Lines: []dto.ReceiveStockLine{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(6)},
			{ItemID: "item-2", Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, e.purchase.DeletePurchase(e.ctx, testCompany, id))
	assert.Empty(t, e.store.lots, "todos los lotes de la compra se eliminan")
	assert.Empty(t, e.store.purchases)
	assert.Empty(t, e.store.pLines)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación e importación inicial
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad de conservación: tras cualquier secuencia de recibir/consumir/
// revertir, sum(lot.quantity) == recibido − consumido no revertido.
func TestConservacion_SecuenciaMixta(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Tornillería", false, 1, 2, 0)
	e.receive(t, "item-1", 10, 1)
	e.receive(t, "item-1", 5, 1.1)
	ref := e.addOrder("order-1")

	require.NoError(t, e.consumeQty(ref, "item-1", 8)) // consumido 8
	require.NoError(t, e.consumeQty(ref, "item-1", 4)) // consumido 12

	// recibido 15 − asignado 12 = 3
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(3)))

	// Revertir una línea cualquiera devuelve exactamente su cantidad.
	lines := e.linesOf(t, ref)
	require.NotEmpty(t, lines)
	reverted := lines[0].Quantity
	require.NoError(t, e.reverse.ReverseFromDocument(e.ctx, appledger.ReverseInput{
		CompanyID: testCompany,
		Ref:       ref,
		LineID:    lines[0].ID,
	}))
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(3).Add(reverted)),
		"el stock total refleja recibido − asignado no revertido")
}

func TestImportInitialStock_CreaLoteINITIAL(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Batería", false, 120, 200, 0.19)

	lotID, err := e.stock.ImportInitialStock(e.ctx, testCompany, testUser, dto.InitialImportRequest{
		ItemID:   "item-1",
		Quantity: decimal.NewFromInt(4),
		UnitCost: decimal.NewFromInt(110),
		Notes:    "conteo inicial",
	})
	require.NoError(t, err)

	lot := e.store.lots[lotID]
	require.NotNil(t, lot)
	assert.Equal(t, entity.LotSourceInitial, lot.PurchaseID, "procedencia INITIAL explícita")

	// El lote importado participa del FIFO como cualquier otro.
	ref := e.addOrder("order-1")
	require.NoError(t, e.consumeQty(ref, "item-1", 2))
	assert.True(t, e.totalStock("item-1").Equal(decimal.NewFromInt(2)))
}

func TestCurrentStock_ServicioSiempreCero(t *testing.T) {
	e := newEnv(t)
	e.addItem("svc-1", "Mano de obra", true, 35, 70, 0.19)

	stock, err := e.stock.CurrentStock(e.ctx, testCompany, "svc-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero(), "un servicio siempre reporta stock cero")
	assert.True(t, stock.AverageCost.Equal(decimal.NewFromInt(35)), "y su costo nominal")
}

func TestCurrentStock_ItemNuevoUsaCostoNominal(t *testing.T) {
	e := newEnv(t)
	e.addItem("item-1", "Termostato", false, 18, 30, 0.19)

	stock, err := e.stock.CurrentStock(e.ctx, testCompany, "item-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
	assert.True(t, stock.AverageCost.Equal(decimal.NewFromInt(18)), "sin lotes se usa el costo nominal")
}
