package protocol


import (
	"fmt"
	"time"
)


const (
	ORDER_TRANSACTION_ID  int32 = 9

	// Value carried by the header of every order. The server expects
	// this constant even though the payload after the header is shorter.
	ORDER_MESSAGE_LENGTH  int32 = 136

	ORDER_TYPE_BUY        byte = 'B'
	ORDER_TYPE_SELL       byte = 'S'

	TRANSACTION_CODE_BASE  int = 800001
	TRANSACTION_CODE_MAX   int = 9999999
)


var orderLayout *Layout = NewLayout("order",
	Int32("transaction_id"),
	Int32("message_length"),
	Text("stock_code", 7),
	Padding(1),
	JustifiedText("stock_name", 51, 50),
	Padding(1),
	Text("transaction_code", 7),
	Padding(1),
	JustifiedText("user_id", 21, 20),
	Padding(3),
	Byte("order_type"),
	Padding(3),
	Int32("quantity"),
	Text("order_time", 15),
	Padding(1),
	Int32("price"),
	Text("original_order", 7),
	Padding(1),
)


func OrderLayout() *Layout {
	return orderLayout
}


type Order struct {
	TransactionId    int32
	MessageLength    int32
	StockCode        string
	StockName        string
	TransactionCode  string
	UserId           string
	OrderType        byte
	Quantity         int32
	OrderTime        string
	Price            int32
	OriginalOrder    string
}

func (this *Order) Encode() []byte {
	var data []byte
	var err error

	data, err = orderLayout.Pack(Record{
		"transaction_id": this.TransactionId,
		"message_length": this.MessageLength,
		"stock_code": this.StockCode,
		"stock_name": this.StockName,
		"transaction_code": this.TransactionCode,
		"user_id": this.UserId,
		"order_type": this.OrderType,
		"quantity": this.Quantity,
		"order_time": this.OrderTime,
		"price": this.Price,
		"original_order": this.OriginalOrder,
	})

	if err != nil {
		panic(err)
	}

	return data
}

func DecodeOrder(data []byte) (*Order, error) {
	var record Record
	var err error

	record, err = orderLayout.Unpack(data)
	if err != nil {
		return nil, err
	}

	return &Order{
		TransactionId: record["transaction_id"].(int32),
		MessageLength: record["message_length"].(int32),
		StockCode: record["stock_code"].(string),
		StockName: record["stock_name"].(string),
		TransactionCode: record["transaction_code"].(string),
		UserId: record["user_id"].(string),
		OrderType: record["order_type"].(byte),
		Quantity: record["quantity"].(int32),
		OrderTime: record["order_time"].(string),
		Price: record["price"].(int32),
		OriginalOrder: record["original_order"].(string),
	}, nil
}


// The static part of every order a simulated user sends.
//
type OrderTemplate struct {
	StockCode      string
	StockName      string
	OrderType      byte
	Quantity       int32
	Price          int32
	OriginalOrder  string
}

var DefaultOrderTemplate OrderTemplate = OrderTemplate{
	StockCode: "005930",
	StockName: "삼성전자_test",
	OrderType: ORDER_TYPE_BUY,
	Quantity: 100,
	Price: 50000,
	OriginalOrder: "NONE",
}

func (this *OrderTemplate) NewOrder(sequence int, userId string, now time.Time) *Order {
	return &Order{
		TransactionId: ORDER_TRANSACTION_ID,
		MessageLength: ORDER_MESSAGE_LENGTH,
		StockCode: this.StockCode,
		StockName: this.StockName,
		TransactionCode: TransactionCode(sequence),
		UserId: userId,
		OrderType: this.OrderType,
		Quantity: this.Quantity,
		OrderTime: FormatOrderTime(now),
		Price: this.Price,
		OriginalOrder: this.OriginalOrder,
	}
}

func (this *OrderTemplate) Encode(sequence int, userId string, now time.Time) []byte {
	return this.NewOrder(sequence, userId, now).Encode()
}

// Encode the order number `sequence` of `userId` with the default template,
// stamped with the current time.
//
func EncodeOrder(sequence int, userId string) []byte {
	return DefaultOrderTemplate.Encode(sequence, userId, time.Now())
}

// The transaction code of the order number `sequence`.
// Codes run from 800001 to 9999999 and then wrap so they always fit the
// 7 digits of the field.
//
func TransactionCode(sequence int) string {
	var span int = TRANSACTION_CODE_MAX - TRANSACTION_CODE_BASE + 1
	var offset int = sequence % span

	if offset < 0 {
		offset += span
	}

	return fmt.Sprintf("%06d", TRANSACTION_CODE_BASE + offset)
}
