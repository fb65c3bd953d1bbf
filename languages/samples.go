package languages

// samples holds the caption preview sentence per language code.
var samples = map[string]string{
	"ab":  "SQL аҵара ахә аҵоуп",
	"af":  "Daar is waarde in die leer en verstaan van SQL",
	"am":  "SQL መማር እና መረዳት ዋጋ አለው",
	"ar":  "هناك قيمة في تعلم وفهم SQL",
	"as":  "SQL শিকা আৰু বুজাত মূল্য আছে",
	"az":  "SQL öyrənmək və anlamaqda dəyər var",
	"ba":  "SQL өйрәнеүҙең һәм аңлауҙың ҡиммәте бар",
	"be":  "Ёсць каштоўнасць у вывучэнні і разуменні SQL",
	"bg":  "Има стойност в изучаването и разбирането на SQL",
	"bn":  "SQL শেখা এবং বোঝার মধ্যে মূল্য আছে",
	"bo":  "SQL སྦྱོང་བ་དང་རྟོགས་པར་རིན་ཐང་ཡོད།",
	"br":  "Bez a zo talvoudegezh en deskiñ ha kompren SQL",
	"bs":  "Postoji vrijednost u učenju i razumijevanju SQL-a",
	"ca":  "Hi ha valor en aprendre i entendre SQL",
	"ceb": "Adunay bili sa pagkat-on ug pagsabot sa SQL",
	"cs":  "V učení a porozumění SQL je hodnota",
	"cy":  "Mae gwerth mewn dysgu a deall SQL",
	"da":  "Der er værdi i at lære og forstå SQL",
	"de":  "Es hat Wert, SQL zu lernen und zu verstehen",
	"el":  "Υπάρχει αξία στην εκμάθηση και κατανόηση της SQL",
	"en":  "There is value in learning and understanding SQL",
	"eo":  "Estas valoro lerni kaj kompreni SQL",
	"es":  "Hay valor en aprender y entender SQL",
	"et":  "SQL-i õppimisel ja mõistmisel on väärtus",
	"eu":  "SQL ikastea eta ulertzea baliotsua da",
	"fa":  "یادگیری و درک SQL ارزش دارد",
	"fi":  "SQL:n oppimisessa ja ymmärtämisessä on arvoa",
	"fo":  "Tað er virði í at læra og skilja SQL",
	"fr":  "Il y a de la valeur à apprendre et comprendre SQL",
	"gl":  "Hai valor en aprender e entender SQL",
	"gn":  "Oĩ valor SQL ñemoarandu ha oikuaápe",
	"gu":  "SQL શીખવામાં અને સમજવામાં મૂલ્ય છે",
	"gv":  "Ta feeuid ayns gynsaghey as toiggal SQL",
	"ha":  "Akwai daraja wajen koyon da fahimtar SQL",
	"haw": "He waiwai ko ka aʻo ʻana a me ka hoʻomaopopo ʻana i ka SQL",
	"hi":  "SQL सीखने और समझने में मूल्य है",
	"hr":  "Postoji vrijednost u učenju i razumijevanju SQL-a",
	"ht":  "Gen valè nan aprann ak konprann SQL",
	"hu":  "Értékes az SQL tanulása és megértése",
	"hy":  "SQL-ը հասկանալը արժեք ունի",
	"ia":  "Il ha valor in apprender e comprender SQL",
	"id":  "Ada nilai dalam mempelajari dan memahami SQL",
	"is":  "Það er gildi í að læra og skilja SQL",
	"it":  "C'è valore nell'imparare e comprendere SQL",
	"iw":  "יש ערך בלמידה והבנה של SQL",
	"ja":  "SQLを学び理解することには価値がある",
	"jw":  "Ana regane sinau lan ngerti SQL",
	"ka":  "SQL-ის სწავლასა და გაგებაში ღირებულებაა",
	"kk":  "SQL үйрену мен түсінудің құндылығы бар",
	"km":  "មានតម្លៃក្នុងការរៀន និងយល់អំពី SQL",
	"kn":  "SQL ಕಲಿಯುವುದು ಮತ್ತು ಅರ್ಥಮಾಡಿಕೊಳ್ಳುವುದರಲ್ಲಿ ಮೌಲ್ಯವಿದೆ",
	"ko":  "SQL을 배우고 이해하는 데는 가치가 있습니다",
	"la":  "Valor est in discendo et intellegendo SQL",
	"lb":  "Et ass Wäert SQL ze léieren an ze verstoen",
	"ln":  "Ezali na motuya koyekola mpe kososola SQL",
	"lo":  "ມີຄຸນຄ່າໃນການຮຽນຮູ້ແລະເຂົ້າໃຈ SQL",
	"lt":  "SQL mokymasis ir supratimas turi vertę",
	"lv":  "SQL apgūšanā un izpratnē ir vērtība",
	"mg":  "Misy tombony ny fianarana sy fahatakarana ny SQL",
	"mi":  "He uara kei te ako me te mōhio ki te SQL",
	"mk":  "Има вредност во учењето и разбирањето на SQL",
	"ml":  "SQL പഠിക്കുന്നതിലും മനസ്സിലാക്കുന്നതിലും മൂല്യമുണ്ട്",
	"mn":  "SQL сурч, ойлгоход үнэ цэнэ байдаг",
	"mr":  "SQL शिकणे आणि समजून घेण्यात मूल्य आहे",
	"ms":  "Terdapat nilai dalam mempelajari dan memahami SQL",
	"mt":  "Hemm valur fit-tagħlim u l-fehim ta' SQL",
	"my":  "SQL သင်ယူခြင်းနှင့် နားလည်ခြင်းတွင် တန်ဖိုးရှိသည်",
	"ne":  "SQL सिक्न र बुझ्नमा मूल्य छ",
	"nl":  "Er is waarde in het leren en begrijpen van SQL",
	"nn":  "Det er verdi i å lære og forstå SQL",
	"no":  "Det er verdi i å lære og forstå SQL",
	"oc":  "I a de valor en apprendre e compròòner SQL",
	"pa":  "SQL ਸਿੱਖਣ ਅਤੇ ਸਮਝਣ ਵਿੱਚ ਮੁੱਲ ਹੈ",
	"pl":  "Jest wartość w nauce i zrozumieniu SQL",
	"ps":  "د SQL زده کړه او پوهیدل ارزښت لري",
	"pt":  "Há valor em aprender e entender SQL",
	"ro":  "Există valoare în a învăța și înțelege SQL",
	"ru":  "Есть ценность в изучении и понимании SQL",
	"sa":  "SQL अध्ययने अवबोधने च मूल्यं अस्ति",
	"sco": "There is value in learnin an unnerstaundin SQL",
	"sd":  "SQL سکڻ ۽ سمجھڻ ۾ قدر آهي",
	"si":  "SQL ඉගෙනීම සහ තේරුම් ගැනීමේ වටිනාකමක් ඇත",
	"sk":  "V učení a pochopení SQL je hodnota",
	"sl":  "V učenju in razumevanju SQL je vrednost",
	"sn":  "Pane kukosha mukudzidza nekunzwisisa SQL",
	"so":  "Waxaa qiimo leh barashada iyo fahamka SQL",
	"sq":  "Ka vlerë të mësosh dhe të kuptosh SQL",
	"sr":  "Постоји вредност у учењу и разумевању SQL-а",
	"su":  "Aya ajén dina diajar sareng ngartos SQL",
	"sv":  "Det finns värde i att lära sig och förstå SQL",
	"sw":  "Kuna thamani katika kujifunza na kuelewa SQL",
	"ta":  "SQL கற்றல் மற்றும் புரிந்துகொள்வதில் மதிப்பு உள்ளது",
	"te":  "SQL నేర్చుకోవడం మరియు అర్థం చేసుకోవడంలో విలువ ఉంది",
	"tg":  "Омӯхтан ва фаҳмидани SQL арзиш дорад",
	"th":  "มีคุณค่าในการเรียนรู้และทำความเข้าใจ SQL",
	"tk":  "SQL öwrenmekde we düşünmekde baha bar",
	"tl":  "May halaga sa pag-aaral at pag-unawa ng SQL",
	"tr":  "SQL öğrenmenin ve anlamanın değeri var",
	"tt":  "SQL өйрәнү һәм аңлауның кыйммәте бар",
	"uk":  "Є цінність у вивченні та розумінні SQL",
	"ur":  "SQL سیکھنے اور سمجھنے میں قدر ہے",
	"uz":  "SQL o'rganish va tushunishda qiymat bor",
	"vi":  "Có giá trị trong việc học và hiểu SQL",
	"war": "May bili ha pag-aram ngan pagsabot han SQL",
	"yi":  "עס איז ווערט אין לערנען און פארשטיין SQL",
	"yo":  "Iye wa ninu kikọ ati loye SQL",
	"zh":  "学习和理解SQL是有价值的",
}
