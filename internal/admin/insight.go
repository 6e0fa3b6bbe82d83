package admin

import (
	"fmt"
	"strings"
)

// CannedNarrator selects a canned pedagogical paragraph by substring
// matching against the most requested title. Pure lookup, no state.
type CannedNarrator struct{}

func NewCannedNarrator() CannedNarrator { return CannedNarrator{} }

const emptyInsight = "Sistem öğrenme modunda: Henüz yeterli talep verisi oluşmadı. Veri seti genişledikçe analizler burada belirecek."

type insightRule struct {
	keywords []string
	text     string
}

// Rules are checked in order; the first title keyword hit wins.
var insightRules = []insightRule{
	{
		keywords: []string{"lgs", "8. sınıf", "deneme"},
		text:     "Bu veri, akademik başarı odaklı bir kaygıyı işaret etmektedir. Özellikle 8. sınıf düzeyinde sınav hazırlık materyali eksikliğinin giderilmesi, öğrencilerin stres düzeyini düşürmek ve başarıyı artırmak adına stratejik bir hamle olacaktır.",
	},
	{
		keywords: []string{"matematik", "fen", "türkçe", "tonguç"},
		text:     "Branş bazlı kaynak ihtiyacı tespit edilmiştir. Öğrencilerin ana derslerdeki kazanım eksiklerini kapatmak için ek kaynak arayışında olduğu görülmektedir. Soru bankası takviyesi önerilir.",
	},
	{
		keywords: []string{"roman", "suç", "sefiller", "şeker", "harry"},
		text:     "Kurgusal ve edebi eserlere olan bu yönelim, öğrencilerin okuma kültürü ve hayal gücü gelişiminde pozitif bir ivme yakaladığını gösteriyor. Nitelikli okuma alışkanlığını sürdürülebilir kılmak için kütüphanenin edebi repertuvarı zenginleştirilmelidir.",
	},
	{
		keywords: []string{"tarih", "nutuk", "ilber"},
		text:     "Tarihsel bilince ve araştırma kültürüne yönelik bir merak uyanışı gözlemlenmektedir. Bu entelektüel ilgiyi beslemek adına belgesel nitelikli eserlerin temini faydalı olacaktır.",
	},
}

const defaultInsightTail = "Spesifik bir ilgi alanına yoğunlaşıldığı görülmektedir. Öğrenci merkezli bir kütüphane yönetimi için, bağış kampanyalarında bu ve benzeri eserlere öncelik verilmesi, aidiyet duygusunu güçlendirecektir."

func (CannedNarrator) Narrate(s Summary) string {
	if s.RequestCount == 0 {
		return emptyInsight
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Veri madenciliği sonuçlarına göre, kütüphane ekosistemindeki en aktif katılımı **%s** sınıfı sergiliyor. ", s.TopClass)
	fmt.Fprintf(&b, "Öğrenci taleplerinde **\"%s\"** eseri (%d talep) istatistiksel bir sapma oluşturarak öne çıkmıştır. ", s.TopTitle, s.TopTitleCount)

	lower := strings.ToLower(s.TopTitle)
	for _, rule := range insightRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				b.WriteString(rule.text)
				return b.String()
			}
		}
	}
	b.WriteString(defaultInsightTail)
	return b.String()
}
