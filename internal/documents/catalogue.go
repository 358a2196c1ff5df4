package documents

// Type is one entry of the fixed document catalogue.
type Type struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// Catalogue lists every document module the console can assign, in the
// order the sidebar shows them. Codes are stable and referenced by
// customer_documents.document_type.
var Catalogue = []Type{
	{Code: "1.1", Title: "Müşteri Bilgi Formu"},
	{Code: "1.2", Title: "Hizmet Sözleşmesi"},
	{Code: "2.1", Title: "Biyosidal Ürün Uygulama İzin Belgesi"},
	{Code: "2.2", Title: "Personel Sertifikaları"},
	{Code: "2.3", Title: "Fümigasyon Ruhsatı"},
	{Code: "3.1", Title: "Mesuliyet Sigortası Poliçesi"},
	{Code: "3.2", Title: "Atık Bertaraf Kayıtları"},
	{Code: "4.1", Title: "Kullanılan Ürün Listesi"},
	{Code: "4.2", Title: "Acil Durum Planı"},
	{Code: "5.1", Title: "Ziyaret Raporları"},
}

// TitleFor returns the catalogue title for a code, empty when unknown.
func TitleFor(code string) string {
	for _, t := range Catalogue {
		if t.Code == code {
			return t.Title
		}
	}
	return ""
}
