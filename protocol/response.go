package protocol


const (
	RESPONSE_TRANSACTION_ID  int32 = 10
	RESPONSE_LENGTH          int32 = 64

	REJECT_CODE_NONE  string = "0000"
)


var responseLayout *Layout = NewLayout("response",
	Int32("transaction_id"),
	Int32("length"),
	Text("transaction_code", 7),
	Padding(1),
	Text("user_id", 21),
	Padding(3),
	Text("time", 15),
	Padding(1),
	Text("reject_code", 7),
	Padding(1),
)


func ResponseLayout() *Layout {
	return responseLayout
}


// Acknowledgement of an order by the server.
//
type Response struct {
	TransactionId    int32
	Length           int32
	TransactionCode  string
	UserId           string
	Time             string
	RejectCode       string
}

func (this *Response) Accepted() bool {
	return (this.RejectCode == "") || (this.RejectCode == REJECT_CODE_NONE)
}

func EncodeResponse(response *Response) []byte {
	var data []byte
	var err error

	data, err = responseLayout.Pack(Record{
		"transaction_id": response.TransactionId,
		"length": response.Length,
		"transaction_code": response.TransactionCode,
		"user_id": response.UserId,
		"time": response.Time,
		"reject_code": response.RejectCode,
	})

	if err != nil {
		panic(err)
	}

	return data
}

// Decode a reply. Any buffer that is not exactly the size of a response is
// rejected with a *DecodeError.
//
func DecodeResponse(data []byte) (*Response, error) {
	var record Record
	var err error

	record, err = responseLayout.Unpack(data)
	if err != nil {
		return nil, err
	}

	return &Response{
		TransactionId: record["transaction_id"].(int32),
		Length: record["length"].(int32),
		TransactionCode: record["transaction_code"].(string),
		UserId: record["user_id"].(string),
		Time: record["time"].(string),
		RejectCode: record["reject_code"].(string),
	}, nil
}
