package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suya12/ocr-claim-review/internal/models"
)

func sampleRecord() models.ClaimRecord {
	return models.ClaimRecord{
		ClientRequestID: "unique_id_123",
		Status:          "SUCCESS",
		ImageURL:        "http://host/doc.jpg?expires=1",
		CreatedAt:       "2026-01-02T12:00:00",
		Details: []models.ClaimDetail{
			{FieldName: "피보험자 성명", FieldText: "홍길동", Confidence: 0.98, CropImageURL: "http://host/crop1.jpg"},
			{FieldName: "피보험자 주민등록번호", FieldText: "900115-1533112", Confidence: 0.91},
			{FieldName: "피보험자 연락처", FieldText: "010-6338-0694", CropImageURL: "/static/crop2.png"},
			{FieldName: "피보험자 수익자청구 요청 보험사", FieldText: "라이나 생명"},
			{FieldName: "보험금 지급 계좌번호", FieldText: "090-1234-5678"},
			{FieldName: "문서 제목", FieldText: "보험금 청구서"}, // unrecognized label
		},
	}
}

func TestToRow_MapsRecognizedLabels(t *testing.T) {
	row := ToRow(sampleRecord())

	assert.Equal(t, "unique_id_123", row.ClientRequestID)
	assert.Equal(t, "SUCCESS", row.Status)
	assert.Equal(t, "2026-01-02T12:00:00", row.CreatedAt)

	assert.Equal(t, "홍길동", row.Field(FieldInsuredName))
	assert.Equal(t, "900115-1533112", row.Field(FieldInsuredSSN))
	assert.Equal(t, "010-6338-0694", row.Field(FieldInsuredContact))
	assert.Equal(t, "라이나 생명", row.Field(FieldInsuredCompany))
	assert.Equal(t, "090-1234-5678", row.Field(FieldPaymentAccountNumber))

	// Unrecognized labels are skipped, not errored.
	for k := range row.Fields {
		assert.NotEqual(t, "문서 제목", k)
	}

	// Crop references land under the mapped field key.
	assert.Equal(t, "http://host/crop1.jpg", row.Crops[FieldInsuredName])
	assert.Equal(t, "/static/crop2.png", row.Crops[FieldInsuredContact])
	_, hasSSNCrop := row.Crops[FieldInsuredSSN]
	assert.False(t, hasSSNCrop)
}

func TestToRow_DetailsOverrideFlatFields(t *testing.T) {
	item := sampleRecord()
	item.InsuredName = "top-level"
	row := ToRow(item)
	assert.Equal(t, "홍길동", row.Field(FieldInsuredName))
}

func TestKey_Priority(t *testing.T) {
	row := models.ClaimRow{
		ID:              "7",
		ClientRequestID: "req-1",
		Fields: map[string]string{
			FieldInsuredSSN:     "900115-1234567",
			FieldInsuredName:    "홍길동",
			FieldInsuredContact: "010-1234-5678",
			FieldInsuredCompany: "라이나 생명",
		},
	}
	assert.Equal(t, "7", Key(row))

	row.ID = ""
	assert.Equal(t, "req-1", Key(row))

	row.ClientRequestID = ""
	assert.Equal(t, "900115-1234567", Key(row))

	row.Fields[FieldInsuredSSN] = ""
	assert.Equal(t, "홍길동|010-1234-5678|라이나 생명", Key(row))
}

func TestKey_Stability(t *testing.T) {
	// One fetch carries only an id, the other only the national ID: the
	// rows must not collide, since the first row's id wins.
	withID := models.ClaimRow{ID: "7", Fields: map[string]string{FieldInsuredSSN: "900115-1234567"}}
	withSSN := models.ClaimRow{Fields: map[string]string{FieldInsuredSSN: "900115-1234567"}}
	assert.NotEqual(t, Key(withID), Key(withSSN))

	// Drop the id and both fetches resolve to the same claim.
	withID.ID = ""
	assert.Equal(t, Key(withID), Key(withSSN))
}

func TestImageSrc_ResolutionOrder(t *testing.T) {
	base := "http://api.example.com/"

	assert.Equal(t, "http://host/a.jpg", ImageSrc("http://host/a.jpg", base))
	assert.Equal(t, "https://host/a.jpg", ImageSrc("https://host/a.jpg", base))
	assert.Equal(t, "data:image/jpeg;base64,xyz", ImageSrc("data:image/jpeg;base64,xyz", base))
	assert.Equal(t, "http://api.example.com/static/a.png", ImageSrc("/static/a.png", base))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", ImageSrc("aGVsbG8=", base))
	assert.Equal(t, "", ImageSrc("", base))
}

func TestCrop(t *testing.T) {
	row := ToRow(sampleRecord())

	view, ok := Crop(row, FieldInsuredContact, "http://api.example.com")
	require.True(t, ok)
	assert.Equal(t, FieldInsuredContact, view.Field)
	assert.Equal(t, "http://api.example.com/static/crop2.png", view.Image)
	assert.Equal(t, "010-6338-0694", view.Value)

	_, ok = Crop(row, FieldInsuredSSN, "http://api.example.com")
	assert.False(t, ok)
}

func TestToForm_AlwaysFullyPopulated(t *testing.T) {
	form := ToForm(ToRow(sampleRecord()))

	assert.Equal(t, "홍길동", form.InsuredName)
	assert.Equal(t, "010-6338-0694", form.InsuredPhone)
	assert.Equal(t, "900115-1533112", form.InsuredID)

	// Fields absent from the record default to empty strings.
	assert.Equal(t, "", form.BeneficiaryName)
	assert.Equal(t, "", form.AccountBank)
	assert.Equal(t, "090-1234-5678", form.AccountNumber)
}

func TestToUpdatedRow_OverlayAndPassthrough(t *testing.T) {
	original := ToRow(sampleRecord())
	original.Fields["unmapped_extra"] = "keep me"

	form := ToForm(original)
	form.InsuredName = "김철수"
	form.AccountBank = "국민은행"

	updated := ToUpdatedRow(original, form)
	assert.Equal(t, "김철수", updated.Field(FieldInsuredName))
	assert.Equal(t, "국민은행", updated.Field(FieldPaymentBankName))
	// Record fields outside the form mapping pass through unchanged.
	assert.Equal(t, "keep me", updated.Field("unmapped_extra"))
	// The original is never mutated.
	assert.Equal(t, "홍길동", original.Field(FieldInsuredName))
}

func TestToFieldPatch_MinimalDiff(t *testing.T) {
	original := ToRow(sampleRecord())
	form := ToForm(original)
	form.InsuredName = "김철수"  // changed
	form.AccountBank = "국민은행" // newly filled
	form.InsuredID = ""       // cleared: never sent
	updated := ToUpdatedRow(original, form)

	patch := ToFieldPatch(original, updated)
	assert.Equal(t, models.FieldPatch{
		"피보험자 성명":    "김철수",
		"보험금 지급 은행명": "국민은행",
	}, patch)

	for label, v := range patch {
		assert.NotEmpty(t, v, "patch must never carry empty values (%s)", label)
	}
}

func TestRoundTrip_UnmodifiedFormYieldsEmptyPatch(t *testing.T) {
	original := ToRow(sampleRecord())
	updated := ToUpdatedRow(original, ToForm(original))
	assert.Empty(t, ToFieldPatch(original, updated))
}
